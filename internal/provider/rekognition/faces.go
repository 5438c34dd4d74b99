package rekognition

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/audit"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
)

// IndexFace indexes the faces found in an S3 image into the configured
// collection, tagged with externalImageID. Faces Rekognition refuses to index
// are logged, not returned as an error.
func (c *Client) IndexFace(ctx context.Context, ref domain.FaceReference, externalImageID string) (*domain.IndexedFaces, error) {
	input := &rekognition.IndexFacesInput{
		CollectionId: aws.String(c.config.CollectionID),
		Image: &types.Image{
			S3Object: toS3Object(ref),
		},
		ExternalImageId: optionalString(externalImageID),
	}

	output, err := c.rekognition.IndexFaces(ctx, input)
	if err != nil {
		err = classifyError(err)
		c.logger.ErrorContext(ctx, "error indexing faces",
			"bucket", ref.Bucket,
			"name", ref.Name,
			"external_image_id", externalImageID,
			"error", err,
		)
		c.logAudit(ctx, audit.Event{
			EventType:  audit.EventFaceIndexed,
			ExternalID: externalImageID,
			Metadata:   referenceMetadata(ref),
		}, err)
		return nil, fmt.Errorf("index faces for %s: %w", externalImageID, err)
	}

	indexed := &domain.IndexedFaces{
		FaceIDs: make([]string, 0, len(output.FaceRecords)),
	}
	for _, record := range output.FaceRecords {
		if record.Face != nil && record.Face.FaceId != nil {
			indexed.FaceIDs = append(indexed.FaceIDs, *record.Face.FaceId)
		}
	}
	for _, face := range output.UnindexedFaces {
		for _, reason := range face.Reasons {
			indexed.UnindexedReasons = append(indexed.UnindexedReasons, string(reason))
		}
	}

	if unindexedErr := ParseIndexFacesError(output.UnindexedFaces); unindexedErr != nil {
		c.logger.WarnContext(ctx, "faces not indexed",
			"external_image_id", externalImageID,
			"unindexed_count", len(output.UnindexedFaces),
			"reason", unindexedErr,
		)
	}

	c.logger.InfoContext(ctx, "faces indexed",
		"external_image_id", externalImageID,
		"face_ids", indexed.FaceIDs,
		"face_model_version", aws.ToString(output.FaceModelVersion),
	)

	metadata := referenceMetadata(ref)
	metadata["faces_indexed"] = strconv.Itoa(len(indexed.FaceIDs))
	metadata["faces_unindexed"] = strconv.Itoa(len(output.UnindexedFaces))
	event := audit.Event{
		EventType:  audit.EventFaceIndexed,
		ExternalID: externalImageID,
		Metadata:   metadata,
	}
	if len(indexed.FaceIDs) > 0 {
		event.FaceID = indexed.FaceIDs[0]
	}
	c.logAudit(ctx, event, nil)

	return indexed, nil
}

// SearchFacesByImage searches the configured collection for faces matching the
// largest face in an S3 image. Matches are returned exactly as the vendor
// ranked them.
func (c *Client) SearchFacesByImage(ctx context.Context, ref domain.FaceReference) ([]domain.FaceMatch, error) {
	input := &rekognition.SearchFacesByImageInput{
		CollectionId: aws.String(c.config.CollectionID),
		Image: &types.Image{
			S3Object: toS3Object(ref),
		},
	}

	output, err := c.rekognition.SearchFacesByImage(ctx, input)
	if err != nil {
		err = classifyError(err)
		c.logger.ErrorContext(ctx, "error searching faces",
			"bucket", ref.Bucket,
			"name", ref.Name,
			"error", err,
		)
		c.logAudit(ctx, audit.Event{
			EventType: audit.EventFaceSearched,
			Metadata:  referenceMetadata(ref),
		}, err)
		return nil, fmt.Errorf("search faces by image: %w", err)
	}

	matches := fromFaceMatches(output.FaceMatches)

	c.logger.InfoContext(ctx, "face matches",
		"bucket", ref.Bucket,
		"name", ref.Name,
		"matches_found", len(matches),
	)

	metadata := referenceMetadata(ref)
	metadata["matches_found"] = strconv.Itoa(len(matches))
	event := audit.Event{
		EventType: audit.EventFaceSearched,
		Metadata:  metadata,
	}
	if len(matches) > 0 && matches[0].Face != nil {
		event.FaceID = aws.ToString(matches[0].Face.FaceID)
		event.ExternalID = aws.ToString(matches[0].Face.ExternalImageID)
	}
	c.logAudit(ctx, event, nil)

	return matches, nil
}

func referenceMetadata(ref domain.FaceReference) map[string]string {
	return map[string]string{
		"bucket":  ref.Bucket,
		"name":    ref.Name,
		"version": ref.Version,
	}
}
