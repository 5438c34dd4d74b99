package domain

// FaceReference localiza uma imagem de face armazenada no S3
type FaceReference struct {
	Bucket  string `json:"bucket"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// S3Object is the vendor's object location shape. Field names mirror the
// Rekognition JSON so relayed payloads look exactly like the vendor's.
type S3Object struct {
	Bucket  *string `json:"Bucket,omitempty"`
	Name    *string `json:"Name,omitempty"`
	Version *string `json:"Version,omitempty"`
}

// Reference converts a vendor location into a FaceReference
func (o *S3Object) Reference() FaceReference {
	if o == nil {
		return FaceReference{}
	}
	return FaceReference{
		Bucket:  deref(o.Bucket),
		Name:    deref(o.Name),
		Version: deref(o.Version),
	}
}

type BoundingBox struct {
	Height *float32 `json:"Height,omitempty"`
	Left   *float32 `json:"Left,omitempty"`
	Top    *float32 `json:"Top,omitempty"`
	Width  *float32 `json:"Width,omitempty"`
}

// Face representa uma face indexada na collection
type Face struct {
	BoundingBox            *BoundingBox `json:"BoundingBox,omitempty"`
	Confidence             *float32     `json:"Confidence,omitempty"`
	ExternalImageID        *string      `json:"ExternalImageId,omitempty"`
	FaceID                 *string      `json:"FaceId,omitempty"`
	ImageID                *string      `json:"ImageId,omitempty"`
	IndexFacesModelVersion *string      `json:"IndexFacesModelVersion,omitempty"`
	UserID                 *string      `json:"UserId,omitempty"`
}

// FaceMatch is one search hit, relayed verbatim
type FaceMatch struct {
	Face       *Face    `json:"Face,omitempty"`
	Similarity *float32 `json:"Similarity,omitempty"`
}

// IndexedFaces summarizes an IndexFaces call
type IndexedFaces struct {
	FaceIDs          []string `json:"face_ids"`
	UnindexedReasons []string `json:"unindexed_reasons,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
