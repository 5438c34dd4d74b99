package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
)

// JobIDHeader carries the correlation id of a queued background job
const JobIDHeader = "X-Job-ID"

const indexFaceMessage = "Face indexed successfully"

// FaceLivenessService interface for the service
type FaceLivenessService interface {
	CreateSession(ctx context.Context) (*domain.LivenessSession, error)
	GetSessionResult(ctx context.Context, sessionID string) (*domain.LivenessSessionResult, error)
	IndexFace(ctx context.Context, ref domain.FaceReference, username string) string
	SearchFace(ctx context.Context, ref domain.FaceReference) ([]domain.FaceMatch, error)
}

// FaceLivenessHandler handles the /faceLiveness routes
type FaceLivenessHandler struct {
	service FaceLivenessService
	logger  *slog.Logger
}

// NewFaceLivenessHandler creates a new FaceLivenessHandler instance
func NewFaceLivenessHandler(service FaceLivenessService, logger *slog.Logger) *FaceLivenessHandler {
	return &FaceLivenessHandler{
		service: service,
		logger:  logger,
	}
}

// FaceRequest is the body of indexFace and searchFace
type FaceRequest struct {
	Bucket   string `json:"bucket"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Username string `json:"username"`
}

func (r FaceRequest) reference() domain.FaceReference {
	return domain.FaceReference{
		Bucket:  r.Bucket,
		Name:    r.Name,
		Version: r.Version,
	}
}

// IndexFaceResponse response for indexFace endpoint
type IndexFaceResponse struct {
	Message string `json:"message"`
}

// SearchFaceResponse response for searchFace endpoint
type SearchFaceResponse struct {
	FaceMatches []domain.FaceMatch `json:"faceMatches"`
}

// CreateSession GET /faceLiveness/createSession
func (h *FaceLivenessHandler) CreateSession(c *fiber.Ctx) error {
	session, err := h.service.CreateSession(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// GetSessionResult GET /faceLiveness/getSessionResult/:sessionId
func (h *FaceLivenessHandler) GetSessionResult(c *fiber.Ctx) error {
	// Params point into a buffer fiber reuses; the background search keeps the id
	sessionID := utils.CopyString(c.Params("sessionId"))

	result, err := h.service.GetSessionResult(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// IndexFace POST /faceLiveness/indexFace - answers before the vendor does
func (h *FaceLivenessHandler) IndexFace(c *fiber.Ctx) error {
	req, err := parseFaceRequest(c)
	if err != nil {
		return err
	}

	if jobID := h.service.IndexFace(c.Context(), req.reference(), req.Username); jobID != "" {
		c.Set(JobIDHeader, jobID)
	}

	return c.JSON(IndexFaceResponse{Message: indexFaceMessage})
}

// SearchFace POST /faceLiveness/searchFace
func (h *FaceLivenessHandler) SearchFace(c *fiber.Ctx) error {
	req, err := parseFaceRequest(c)
	if err != nil {
		return err
	}

	matches, err := h.service.SearchFace(c.Context(), req.reference())
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []domain.FaceMatch{}
	}

	return c.JSON(SearchFaceResponse{FaceMatches: matches})
}

// parseFaceRequest decodes a JSON body without validating it. Empty fields are
// forwarded as they are, and a body that is not JSON reads as empty.
func parseFaceRequest(c *fiber.Ctx) (FaceRequest, error) {
	var req FaceRequest
	if len(c.Body()) == 0 || !c.Is("json") {
		return req, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return req, domain.ErrBadRequest.WithError(err)
	}
	return req, nil
}
