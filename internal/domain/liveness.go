package domain

// LivenessSession é a resposta da criação de sessão de liveness
type LivenessSession struct {
	SessionID *string `json:"SessionId,omitempty"`
}

type AuditImage struct {
	BoundingBox *BoundingBox `json:"BoundingBox,omitempty"`
	Bytes       []byte       `json:"Bytes,omitempty"`
	S3Object    *S3Object    `json:"S3Object,omitempty"`
}

// Challenge identifica o desafio apresentado ao usuário na sessão
type Challenge struct {
	Type    string  `json:"Type,omitempty"`
	Version *string `json:"Version,omitempty"`
}

// LivenessSessionResult é o resultado de uma sessão de liveness
// Status values are the vendor's: CREATED, IN_PROGRESS, SUCCEEDED, FAILED, EXPIRED
type LivenessSessionResult struct {
	SessionID      *string      `json:"SessionId,omitempty"`
	Status         string       `json:"Status,omitempty"`
	Confidence     *float32     `json:"Confidence,omitempty"`
	ReferenceImage *AuditImage  `json:"ReferenceImage,omitempty"`
	AuditImages    []AuditImage `json:"AuditImages,omitempty"`
	Challenge      *Challenge   `json:"Challenge,omitempty"`
}

// ReferenceLocation returns the S3 location of the reference selfie, if the
// vendor stored one
func (r *LivenessSessionResult) ReferenceLocation() (FaceReference, bool) {
	if r == nil || r.ReferenceImage == nil || r.ReferenceImage.S3Object == nil {
		return FaceReference{}, false
	}
	return r.ReferenceImage.S3Object.Reference(), true
}
