package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/jobs"
)

const greeting = "Hello World with Go!"

// ReadinessChecker reports whether the vendor side is usable
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// JobStatsProvider exposes background job counters
type JobStatsProvider interface {
	Stats() jobs.Stats
}

type HealthHandler struct {
	checker  ReadinessChecker
	jobStats JobStatsProvider
}

func NewHealthHandler(checker ReadinessChecker, jobStats JobStatsProvider) *HealthHandler {
	return &HealthHandler{
		checker:  checker,
		jobStats: jobStats,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type ReadyResponse struct {
	Status string     `json:"status"`
	Jobs   jobs.Stats `json:"jobs"`
}

// Root GET / - plain text greeting
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.SendString(greeting)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.checker != nil {
		if err := h.checker.Ready(c.Context()); err != nil {
			return err
		}
	}

	resp := ReadyResponse{Status: "ready"}
	if h.jobStats != nil {
		resp.Jobs = h.jobStats.Stats()
	}

	return c.JSON(resp)
}
