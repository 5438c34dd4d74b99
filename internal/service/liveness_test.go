package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/jobs"
)

type MockFaceClient struct {
	mock.Mock
}

func (m *MockFaceClient) CreateLivenessSession(ctx context.Context) (*domain.LivenessSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LivenessSession), args.Error(1)
}

func (m *MockFaceClient) GetLivenessSessionResult(ctx context.Context, sessionID string) (*domain.LivenessSessionResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LivenessSessionResult), args.Error(1)
}

func (m *MockFaceClient) IndexFace(ctx context.Context, ref domain.FaceReference, externalImageID string) (*domain.IndexedFaces, error) {
	args := m.Called(ctx, ref, externalImageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IndexedFaces), args.Error(1)
}

func (m *MockFaceClient) SearchFacesByImage(ctx context.Context, ref domain.FaceReference) ([]domain.FaceMatch, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FaceMatch), args.Error(1)
}

func (m *MockFaceClient) CollectionExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// recordingDispatcher keeps queued jobs so tests decide when they run
type recordingDispatcher struct {
	names []string
	fns   []jobs.Func
	err   error
}

func (d *recordingDispatcher) Enqueue(name string, fn jobs.Func) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.names = append(d.names, name)
	d.fns = append(d.fns, fn)
	return "job-" + name, nil
}

func (d *recordingDispatcher) runAll(t *testing.T) []error {
	t.Helper()
	errs := make([]error, 0, len(d.fns))
	for _, fn := range d.fns {
		errs = append(errs, fn(context.Background()))
	}
	return errs
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func TestFaceLivenessService_CreateSession(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(*MockFaceClient)
		wantErr    *domain.AppError
		wantSessID string
	}{
		{
			name: "success",
			setupMock: func(m *MockFaceClient) {
				m.On("CreateLivenessSession", mock.Anything).
					Return(&domain.LivenessSession{SessionID: strPtr("session-1")}, nil)
			},
			wantSessID: "session-1",
		},
		{
			name: "vendor error",
			setupMock: func(m *MockFaceClient) {
				m.On("CreateLivenessSession", mock.Anything).
					Return(nil, errors.New("AccessDeniedException"))
			},
			wantErr: domain.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockFaceClient)
			tt.setupMock(client)

			svc := NewFaceLivenessService(client, &recordingDispatcher{}, testLogger())

			session, err := svc.CreateSession(context.Background())

			if tt.wantErr != nil {
				var appErr *domain.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantErr.Code, appErr.Code)
				assert.GreaterOrEqual(t, appErr.StatusCode, 500)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSessID, *session.SessionID)
			}

			client.AssertExpectations(t)
		})
	}
}

func TestFaceLivenessService_GetSessionResult(t *testing.T) {
	referenceResult := &domain.LivenessSessionResult{
		SessionID:  strPtr("session-1"),
		Status:     "SUCCEEDED",
		Confidence: func() *float32 { f := float32(97.5); return &f }(),
		ReferenceImage: &domain.AuditImage{
			S3Object: &domain.S3Object{
				Bucket: strPtr("liveness-output"),
				Name:   strPtr("face-liveness/session-1/reference.jpg"),
			},
		},
	}
	reference := domain.FaceReference{Bucket: "liveness-output", Name: "face-liveness/session-1/reference.jpg"}

	t.Run("queues reference search when a reference image exists", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("GetLivenessSessionResult", mock.Anything, "session-1").Return(referenceResult, nil)
		client.On("SearchFacesByImage", mock.Anything, reference).
			Return([]domain.FaceMatch{{Face: &domain.Face{FaceID: strPtr("f1")}}}, nil)

		dispatcher := &recordingDispatcher{}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		result, err := svc.GetSessionResult(context.Background(), "session-1")

		require.NoError(t, err)
		assert.Same(t, referenceResult, result)
		require.Equal(t, []string{JobReferenceFaceSearch}, dispatcher.names)

		// Search has not run yet: the response does not wait for it
		client.AssertNotCalled(t, "SearchFacesByImage", mock.Anything, mock.Anything)

		errs := dispatcher.runAll(t)
		assert.NoError(t, errs[0])
		client.AssertExpectations(t)
	})

	t.Run("reference search failure stays inside the job", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("GetLivenessSessionResult", mock.Anything, "session-1").Return(referenceResult, nil)
		client.On("SearchFacesByImage", mock.Anything, reference).Return(nil, errors.New("InvalidS3ObjectException"))

		dispatcher := &recordingDispatcher{}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		result, err := svc.GetSessionResult(context.Background(), "session-1")

		require.NoError(t, err)
		assert.Equal(t, "SUCCEEDED", result.Status)

		errs := dispatcher.runAll(t)
		require.Len(t, errs, 1)
		assert.ErrorContains(t, errs[0], "session-1")
	})

	t.Run("no job without reference image", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("GetLivenessSessionResult", mock.Anything, "session-2").
			Return(&domain.LivenessSessionResult{SessionID: strPtr("session-2"), Status: "IN_PROGRESS"}, nil)

		dispatcher := &recordingDispatcher{}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		result, err := svc.GetSessionResult(context.Background(), "session-2")

		require.NoError(t, err)
		assert.Equal(t, "IN_PROGRESS", result.Status)
		assert.Empty(t, dispatcher.names)
	})

	t.Run("result returned even if job cannot be queued", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("GetLivenessSessionResult", mock.Anything, "session-1").Return(referenceResult, nil)

		dispatcher := &recordingDispatcher{err: jobs.ErrQueueFull}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		result, err := svc.GetSessionResult(context.Background(), "session-1")

		require.NoError(t, err)
		assert.Same(t, referenceResult, result)
	})

	t.Run("vendor error", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("GetLivenessSessionResult", mock.Anything, "missing").
			Return(nil, errors.New("SessionNotFoundException"))

		dispatcher := &recordingDispatcher{}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		result, err := svc.GetSessionResult(context.Background(), "missing")

		assert.Nil(t, result)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 502, appErr.StatusCode)
		assert.Empty(t, dispatcher.names)
	})
}

func TestFaceLivenessService_IndexFace(t *testing.T) {
	ref := domain.FaceReference{Bucket: "uploads", Name: "alice.jpg", Version: "v1"}

	t.Run("queues index job with exact arguments", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("IndexFace", mock.Anything, ref, "alice").
			Return(&domain.IndexedFaces{FaceIDs: []string{"face-1"}}, nil)

		dispatcher := &recordingDispatcher{}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		jobID := svc.IndexFace(context.Background(), ref, "alice")

		assert.Equal(t, "job-index-face", jobID)
		client.AssertNotCalled(t, "IndexFace", mock.Anything, mock.Anything, mock.Anything)

		errs := dispatcher.runAll(t)
		assert.NoError(t, errs[0])
		client.AssertExpectations(t)
	})

	t.Run("index failure is reported by the job only", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("IndexFace", mock.Anything, ref, "alice").Return(nil, errors.New("AccessDeniedException"))

		dispatcher := &recordingDispatcher{}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		jobID := svc.IndexFace(context.Background(), ref, "alice")
		assert.NotEmpty(t, jobID)

		errs := dispatcher.runAll(t)
		assert.Error(t, errs[0])
	})

	t.Run("empty job id when queue is full", func(t *testing.T) {
		client := new(MockFaceClient)
		dispatcher := &recordingDispatcher{err: jobs.ErrQueueFull}
		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		jobID := svc.IndexFace(context.Background(), ref, "alice")

		assert.Empty(t, jobID)
		client.AssertNotCalled(t, "IndexFace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("runs on the real dispatcher after the caller returns", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("IndexFace", mock.Anything, ref, "alice").
			Return(&domain.IndexedFaces{FaceIDs: []string{"face-1"}}, nil)

		dispatcher := jobs.NewDispatcher(testLogger(), jobs.Config{Workers: 1, QueueSize: 1, Timeout: time.Second})
		dispatcher.Start()

		svc := NewFaceLivenessService(client, dispatcher, testLogger())

		// Request context is cancelled as soon as the handler returns
		reqCtx, cancel := context.WithCancel(context.Background())
		jobID := svc.IndexFace(reqCtx, ref, "alice")
		cancel()

		require.NotEmpty(t, jobID)
		require.NoError(t, dispatcher.Stop(context.Background()))

		client.AssertExpectations(t)
		assert.Equal(t, uint64(1), dispatcher.Stats().Succeeded)
	})
}

func TestFaceLivenessService_SearchFace(t *testing.T) {
	ref := domain.FaceReference{Bucket: "b1", Name: "img.jpg", Version: "v1"}

	t.Run("returns vendor matches unmodified", func(t *testing.T) {
		sim1, sim2 := float32(80.1), float32(98.2)
		matches := []domain.FaceMatch{
			{Face: &domain.Face{FaceID: strPtr("f2")}, Similarity: &sim1},
			{Face: &domain.Face{FaceID: strPtr("f1")}, Similarity: &sim2},
		}

		client := new(MockFaceClient)
		client.On("SearchFacesByImage", mock.Anything, ref).Return(matches, nil)

		svc := NewFaceLivenessService(client, &recordingDispatcher{}, testLogger())

		got, err := svc.SearchFace(context.Background(), ref)

		require.NoError(t, err)
		assert.Equal(t, matches, got)
	})

	t.Run("nil matches become empty list", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("SearchFacesByImage", mock.Anything, ref).Return([]domain.FaceMatch(nil), nil)

		svc := NewFaceLivenessService(client, &recordingDispatcher{}, testLogger())

		got, err := svc.SearchFace(context.Background(), ref)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("vendor error", func(t *testing.T) {
		client := new(MockFaceClient)
		client.On("SearchFacesByImage", mock.Anything, ref).Return(nil, errors.New("ResourceNotFoundException"))

		svc := NewFaceLivenessService(client, &recordingDispatcher{}, testLogger())

		got, err := svc.SearchFace(context.Background(), ref)

		assert.Nil(t, got)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	})
}

func TestFaceLivenessService_Ready(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		err     error
		wantErr bool
	}{
		{"collection reachable", true, nil, false},
		{"collection missing", false, nil, true},
		{"describe fails", false, errors.New("AccessDeniedException"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockFaceClient)
			client.On("CollectionExists", mock.Anything).Return(tt.exists, tt.err)

			svc := NewFaceLivenessService(client, &recordingDispatcher{}, testLogger())

			err := svc.Ready(context.Background())

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var appErr *domain.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 503, appErr.StatusCode)
		})
	}
}
