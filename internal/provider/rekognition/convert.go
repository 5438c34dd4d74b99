package rekognition

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
)

// toS3Object builds the vendor image location. Empty fields are left unset
// so the SDK omits them, the same as an absent JSON property.
func toS3Object(ref domain.FaceReference) *types.S3Object {
	return &types.S3Object{
		Bucket:  optionalString(ref.Bucket),
		Name:    optionalString(ref.Name),
		Version: optionalString(ref.Version),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func fromS3Object(o *types.S3Object) *domain.S3Object {
	if o == nil {
		return nil
	}
	return &domain.S3Object{
		Bucket:  o.Bucket,
		Name:    o.Name,
		Version: o.Version,
	}
}

func fromBoundingBox(b *types.BoundingBox) *domain.BoundingBox {
	if b == nil {
		return nil
	}
	return &domain.BoundingBox{
		Height: b.Height,
		Left:   b.Left,
		Top:    b.Top,
		Width:  b.Width,
	}
}

func fromAuditImage(img *types.AuditImage) *domain.AuditImage {
	if img == nil {
		return nil
	}
	return &domain.AuditImage{
		BoundingBox: fromBoundingBox(img.BoundingBox),
		Bytes:       img.Bytes,
		S3Object:    fromS3Object(img.S3Object),
	}
}

func fromAuditImages(imgs []types.AuditImage) []domain.AuditImage {
	if len(imgs) == 0 {
		return nil
	}
	out := make([]domain.AuditImage, 0, len(imgs))
	for i := range imgs {
		out = append(out, *fromAuditImage(&imgs[i]))
	}
	return out
}

func fromChallenge(ch *types.Challenge) *domain.Challenge {
	if ch == nil {
		return nil
	}
	return &domain.Challenge{
		Type:    string(ch.Type),
		Version: ch.Version,
	}
}

func fromFace(f *types.Face) *domain.Face {
	if f == nil {
		return nil
	}
	return &domain.Face{
		BoundingBox:            fromBoundingBox(f.BoundingBox),
		Confidence:             f.Confidence,
		ExternalImageID:        f.ExternalImageId,
		FaceID:                 f.FaceId,
		ImageID:                f.ImageId,
		IndexFacesModelVersion: f.IndexFacesModelVersion,
		UserID:                 f.UserId,
	}
}

// fromFaceMatches keeps vendor order and content; the result is never nil
func fromFaceMatches(matches []types.FaceMatch) []domain.FaceMatch {
	out := make([]domain.FaceMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.FaceMatch{
			Face:       fromFace(m.Face),
			Similarity: m.Similarity,
		})
	}
	return out
}
