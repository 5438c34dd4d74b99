package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
)

// LivenessService is everything the relay routes need from the service layer
type LivenessService interface {
	handler.FaceLivenessService
	Ready(ctx context.Context) error
}

type Dependencies struct {
	Service  LivenessService
	JobStats handler.JobStatsProvider
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Face Liveness Relay",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	// Logger wraps Recover so panicking requests still get an access log line
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(middleware.Recover(r.logger))
	// Credentials are not allowed even though the original relay allowed them:
	// fiber refuses AllowCredentials with a wildcard origin and browsers reject
	// credentialed responses carrying "*"
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With",
		ExposeHeaders:    handler.JobIDHeader,
		AllowCredentials: false,
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var (
		checker  handler.ReadinessChecker
		jobStats handler.JobStatsProvider
	)
	if r.deps != nil {
		if r.deps.Service != nil {
			checker = r.deps.Service
		}
		jobStats = r.deps.JobStats
	}

	// Health check endpoints
	healthHandler := handler.NewHealthHandler(checker, jobStats)
	r.app.Get("/", healthHandler.Root)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure relay routes if dependencies were provided
	if r.deps != nil && r.deps.Service != nil {
		livenessHandler := handler.NewFaceLivenessHandler(r.deps.Service, r.logger)

		faceLiveness := r.app.Group("/faceLiveness")
		faceLiveness.Get("/createSession", livenessHandler.CreateSession)
		faceLiveness.Get("/getSessionResult/:sessionId", livenessHandler.GetSessionResult)
		faceLiveness.Post("/indexFace", livenessHandler.IndexFace)
		faceLiveness.Post("/searchFace", livenessHandler.SearchFace)
	}

	// Unmatched routes
	r.app.Use(func(c *fiber.Ctx) error {
		return domain.ErrNotFound
	})
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires
func (r *Router) Shutdown(ctx context.Context) error {
	return r.app.ShutdownWithContext(ctx)
}
