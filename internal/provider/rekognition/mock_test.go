package rekognition

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/audit"
)

// mockRekognitionAPI is a mock implementation of RekognitionAPI interface for testing
type mockRekognitionAPI struct {
	createFaceLivenessSessionFunc     func(ctx context.Context, params *rekognition.CreateFaceLivenessSessionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateFaceLivenessSessionOutput, error)
	getFaceLivenessSessionResultsFunc func(ctx context.Context, params *rekognition.GetFaceLivenessSessionResultsInput, optFns ...func(*rekognition.Options)) (*rekognition.GetFaceLivenessSessionResultsOutput, error)
	indexFacesFunc                    func(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	searchFacesByImageFunc            func(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
	describeCollectionFunc            func(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
}

func (m *mockRekognitionAPI) CreateFaceLivenessSession(ctx context.Context, params *rekognition.CreateFaceLivenessSessionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateFaceLivenessSessionOutput, error) {
	if m.createFaceLivenessSessionFunc != nil {
		return m.createFaceLivenessSessionFunc(ctx, params, optFns...)
	}
	return &rekognition.CreateFaceLivenessSessionOutput{}, nil
}

func (m *mockRekognitionAPI) GetFaceLivenessSessionResults(ctx context.Context, params *rekognition.GetFaceLivenessSessionResultsInput, optFns ...func(*rekognition.Options)) (*rekognition.GetFaceLivenessSessionResultsOutput, error) {
	if m.getFaceLivenessSessionResultsFunc != nil {
		return m.getFaceLivenessSessionResultsFunc(ctx, params, optFns...)
	}
	return &rekognition.GetFaceLivenessSessionResultsOutput{}, nil
}

func (m *mockRekognitionAPI) IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error) {
	if m.indexFacesFunc != nil {
		return m.indexFacesFunc(ctx, params, optFns...)
	}
	return &rekognition.IndexFacesOutput{}, nil
}

func (m *mockRekognitionAPI) SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error) {
	if m.searchFacesByImageFunc != nil {
		return m.searchFacesByImageFunc(ctx, params, optFns...)
	}
	return &rekognition.SearchFacesByImageOutput{}, nil
}

func (m *mockRekognitionAPI) DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error) {
	if m.describeCollectionFunc != nil {
		return m.describeCollectionFunc(ctx, params, optFns...)
	}
	return &rekognition.DescribeCollectionOutput{}, nil
}

// recordingAuditLogger keeps audit events for assertions
type recordingAuditLogger struct {
	events []audit.Event
}

func (l *recordingAuditLogger) Log(_ context.Context, event audit.Event) error {
	l.events = append(l.events, event)
	return nil
}
