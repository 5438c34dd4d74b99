package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/jobs"
)

// Background job names, as they appear in the logs
const (
	JobIndexFace           = "index-face"
	JobReferenceFaceSearch = "reference-face-search"
)

// FaceClient is the vendor surface the relay forwards to
type FaceClient interface {
	CreateLivenessSession(ctx context.Context) (*domain.LivenessSession, error)
	GetLivenessSessionResult(ctx context.Context, sessionID string) (*domain.LivenessSessionResult, error)
	IndexFace(ctx context.Context, ref domain.FaceReference, externalImageID string) (*domain.IndexedFaces, error)
	SearchFacesByImage(ctx context.Context, ref domain.FaceReference) ([]domain.FaceMatch, error)
	CollectionExists(ctx context.Context) (bool, error)
}

// JobDispatcher runs work after the HTTP response has been sent
type JobDispatcher interface {
	Enqueue(name string, fn jobs.Func) (string, error)
}

// FaceLivenessService relays liveness and face collection requests to the vendor
type FaceLivenessService struct {
	client     FaceClient
	dispatcher JobDispatcher
	logger     *slog.Logger
}

func NewFaceLivenessService(client FaceClient, dispatcher JobDispatcher, logger *slog.Logger) *FaceLivenessService {
	return &FaceLivenessService{
		client:     client,
		dispatcher: dispatcher,
		logger:     logger.With("component", "face_liveness_service"),
	}
}

func (s *FaceLivenessService) CreateSession(ctx context.Context) (*domain.LivenessSession, error) {
	session, err := s.client.CreateLivenessSession(ctx)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}
	return session, nil
}

// GetSessionResult returns the vendor's session result whatever its status.
// When the vendor stored a reference image, a reference-face-search job is
// queued against it; the caller never sees that job's outcome.
func (s *FaceLivenessService) GetSessionResult(ctx context.Context, sessionID string) (*domain.LivenessSessionResult, error) {
	result, err := s.client.GetLivenessSessionResult(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}

	if ref, ok := result.ReferenceLocation(); ok {
		s.enqueue(JobReferenceFaceSearch, func(ctx context.Context) error {
			matches, err := s.client.SearchFacesByImage(ctx, ref)
			if err != nil {
				return fmt.Errorf("session %s: %w", sessionID, err)
			}
			s.logger.InfoContext(ctx, "reference face search completed",
				"session_id", sessionID,
				"job_id", jobs.JobIDFromContext(ctx),
				"matches_found", len(matches),
			)
			return nil
		}, "session_id", sessionID)
	}

	return result, nil
}

// IndexFace queues the indexing of ref under username and returns the job ID,
// or "" if the job could not be queued. Indexing failures only reach the logs.
func (s *FaceLivenessService) IndexFace(ctx context.Context, ref domain.FaceReference, username string) string {
	return s.enqueue(JobIndexFace, func(ctx context.Context) error {
		_, err := s.client.IndexFace(ctx, ref, username)
		return err
	}, "external_image_id", username, "bucket", ref.Bucket, "name", ref.Name)
}

func (s *FaceLivenessService) SearchFace(ctx context.Context, ref domain.FaceReference) ([]domain.FaceMatch, error) {
	matches, err := s.client.SearchFacesByImage(ctx, ref)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}
	if matches == nil {
		matches = []domain.FaceMatch{}
	}
	return matches, nil
}

// Ready reports whether the configured face collection can be reached
func (s *FaceLivenessService) Ready(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx)
	if err != nil {
		return domain.ErrServiceUnavailable.WithError(err)
	}
	if !exists {
		return domain.ErrServiceUnavailable.WithError(errors.New("face collection not found"))
	}
	return nil
}

func (s *FaceLivenessService) enqueue(name string, fn jobs.Func, attrs ...any) string {
	jobID, err := s.dispatcher.Enqueue(name, fn)
	if err != nil {
		s.logger.Error("failed to queue background job",
			append([]any{"job", name, "error", err}, attrs...)...,
		)
		return ""
	}

	s.logger.Debug("background job queued",
		append([]any{"job", name, "job_id", jobID}, attrs...)...,
	)
	return jobID
}
