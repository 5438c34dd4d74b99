package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// FaceReferenceRequest is the body accepted by indexFace and searchFace
type FaceReferenceRequest struct {
	Bucket   string `json:"bucket" example:"user-uploads"`
	Name     string `json:"name" example:"photos/alice.jpg"`
	Version  string `json:"version,omitempty" example:"3HL4kqtJlcpXroDTDmJ"`
	Username string `json:"username,omitempty" example:"alice"`
}

// CreateSessionResponse represents a newly created liveness session
type CreateSessionResponse struct {
	SessionID string `json:"SessionId" example:"390c5a2a-1d0b-4b9f-a7b5-0b4f9c1f5a61"`
}

// S3ObjectDoc locates an image in S3
type S3ObjectDoc struct {
	Bucket  string `json:"Bucket" example:"liveness-output"`
	Name    string `json:"Name" example:"face-liveness/390c5a2a/reference.jpg"`
	Version string `json:"Version,omitempty"`
}

// BoundingBoxDoc is a face position as ratios of the image size
type BoundingBoxDoc struct {
	Height float32 `json:"Height" example:"0.42"`
	Left   float32 `json:"Left" example:"0.31"`
	Top    float32 `json:"Top" example:"0.18"`
	Width  float32 `json:"Width" example:"0.36"`
}

// AuditImageDoc is an image captured during the liveness check
type AuditImageDoc struct {
	S3Object    *S3ObjectDoc    `json:"S3Object,omitempty"`
	BoundingBox *BoundingBoxDoc `json:"BoundingBox,omitempty"`
}

// SessionResultResponse represents the result of a liveness session
type SessionResultResponse struct {
	SessionID      string          `json:"SessionId" example:"390c5a2a-1d0b-4b9f-a7b5-0b4f9c1f5a61"`
	Status         string          `json:"Status" example:"SUCCEEDED"`
	Confidence     float32         `json:"Confidence,omitempty" example:"98.7"`
	ReferenceImage *AuditImageDoc  `json:"ReferenceImage,omitempty"`
	AuditImages    []AuditImageDoc `json:"AuditImages,omitempty"`
}

// IndexFaceResponse is returned once the indexing job is queued
type IndexFaceResponse struct {
	Message string `json:"message" example:"Face indexed successfully"`
}

// FaceDoc is a face stored in the collection
type FaceDoc struct {
	FaceID          string          `json:"FaceId" example:"f1"`
	ImageID         string          `json:"ImageId,omitempty"`
	ExternalImageID string          `json:"ExternalImageId,omitempty" example:"alice"`
	Confidence      float32         `json:"Confidence,omitempty" example:"99.9"`
	BoundingBox     *BoundingBoxDoc `json:"BoundingBox,omitempty"`
}

// FaceMatchDoc is a collection face that matched the searched image
type FaceMatchDoc struct {
	Face       FaceDoc `json:"Face"`
	Similarity float32 `json:"Similarity" example:"98.2"`
}

// SearchFaceResponse wraps the vendor matches
type SearchFaceResponse struct {
	FaceMatches []FaceMatchDoc `json:"faceMatches"`
}

// HealthResponse represents liveness of the process
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// JobStatsDoc reports background job counters
type JobStatsDoc struct {
	Enqueued  uint64 `json:"enqueued" example:"12"`
	Succeeded uint64 `json:"succeeded" example:"10"`
	Failed    uint64 `json:"failed" example:"1"`
	Dropped   uint64 `json:"dropped" example:"0"`
	Pending   int    `json:"pending" example:"1"`
}

// ReadyResponse represents readiness of the relay
type ReadyResponse struct {
	Status string      `json:"status" example:"ready"`
	Jobs   JobStatsDoc `json:"jobs"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"UPSTREAM_ERROR"`
	Message string `json:"message" example:"Face recognition service request failed"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Face Liveness Relay API",
		Version:     "v1.0.0",
		Description: "Relay to AWS Rekognition Face Liveness sessions and face collection index/search",
		Host:        "localhost:8080",
		Path:        "/",
	})

	upstreamError := response.New(ErrorResponse{}, "502", "Face recognition service request failed")

	endpoints := []*endpoint.EndPoint{
		// GET / - Greeting
		endpoint.New(
			endpoint.GET,
			"/",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Greeting"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("text/plain")}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Process health"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Process is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness"),
			endpoint.WithDescription("Checks that the face collection is reachable and reports background job counters"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReadyResponse{}, "200", "Ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SERVICE_UNAVAILABLE", Message: "Face collection is not reachable"}, "503", "Service Unavailable"),
			}),
		),

		// GET /faceLiveness/createSession
		endpoint.New(
			endpoint.GET,
			"/faceLiveness/createSession",
			endpoint.WithTags("Face Liveness"),
			endpoint.WithSummary("Create a liveness session"),
			endpoint.WithDescription("Creates a Face Liveness session whose audit images are written under face-liveness/ in the output bucket"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreateSessionResponse{}, "200", "Session created"),
			}),
			endpoint.WithErrors([]response.Response{upstreamError}),
		),

		// GET /faceLiveness/getSessionResult/{sessionId}
		endpoint.New(
			endpoint.GET,
			"/faceLiveness/getSessionResult/{sessionId}",
			endpoint.WithTags("Face Liveness"),
			endpoint.WithSummary("Get a liveness session result"),
			endpoint.WithDescription("Returns the session result as reported by the vendor. When a reference image exists, a background search of the collection is queued."),
			endpoint.WithParams(
				parameter.StrParam("sessionId", parameter.Path, parameter.WithDescription("Liveness session identifier")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResultResponse{}, "200", "Session result"),
			}),
			endpoint.WithErrors([]response.Response{upstreamError}),
		),

		// POST /faceLiveness/indexFace
		endpoint.New(
			endpoint.POST,
			"/faceLiveness/indexFace",
			endpoint.WithTags("Face Collection"),
			endpoint.WithSummary("Index a face"),
			endpoint.WithDescription("Queues indexing of an S3 image into the face collection under the given username. The response does not wait for the vendor; the X-Job-ID header carries the job correlation id."),
			endpoint.WithBody(FaceReferenceRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IndexFaceResponse{}, "200", "Indexing queued"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Malformed JSON body"),
			}),
		),

		// POST /faceLiveness/searchFace
		endpoint.New(
			endpoint.POST,
			"/faceLiveness/searchFace",
			endpoint.WithTags("Face Collection"),
			endpoint.WithSummary("Search the collection by image"),
			endpoint.WithDescription("Searches the face collection with the face in an S3 image and returns the vendor matches unmodified"),
			endpoint.WithBody(FaceReferenceRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SearchFaceResponse{}, "200", "Search completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Malformed JSON body"),
				upstreamError,
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
