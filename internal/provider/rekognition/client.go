package rekognition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/audit"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/jobs"
)

const (
	errCodeAccessDenied       = "AccessDeniedException"
	errCodeResourceNotFound   = "ResourceNotFoundException"
	errCodeSessionNotFound    = "SessionNotFoundException"
	errCodeInvalidParameter   = "InvalidParameterException"
	errCodeInvalidS3Object    = "InvalidS3ObjectException"
	errCodeInvalidImageFormat = "InvalidImageFormatException"
	errCodeThrottling         = "ThrottlingException"
	errCodeThroughput         = "ProvisionedThroughputExceededException"

	providerName = "rekognition"
)

// RekognitionAPI is the subset of *rekognition.Client used by the relay
type RekognitionAPI interface {
	CreateFaceLivenessSession(ctx context.Context, params *rekognition.CreateFaceLivenessSessionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateFaceLivenessSessionOutput, error)
	GetFaceLivenessSessionResults(ctx context.Context, params *rekognition.GetFaceLivenessSessionResultsInput, optFns ...func(*rekognition.Options)) (*rekognition.GetFaceLivenessSessionResultsOutput, error)
	IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
	DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
}

var _ RekognitionAPI = (*rekognition.Client)(nil)

// Client wraps the AWS Rekognition client and relays liveness and collection operations
type Client struct {
	rekognition RekognitionAPI
	config      Config
	logger      *slog.Logger
	auditLogger audit.Logger
}

// ClientOption defines optional configuration for Client
type ClientOption func(*Client)

// WithAuditLogger sets the audit logger for the client
func WithAuditLogger(logger audit.Logger) ClientOption {
	return func(c *Client) {
		c.auditLogger = logger
	}
}

// WithLogger sets the logger used for vendor call diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Rekognition client with the provided configuration.
// Static credentials are used when configured, otherwise the AWS default credential chain.
func NewClient(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.HasStaticCredentials() {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewClientWithAPI(rekognition.NewFromConfig(awsCfg), cfg, opts...), nil
}

// NewClientWithAPI builds a Client around an existing API implementation
func NewClientWithAPI(api RekognitionAPI, cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		rekognition: api,
		config:      cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		auditLogger: &audit.NoOpLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("component", providerName)

	return c
}

// CollectionExists checks if the configured face collection exists
func (c *Client) CollectionExists(ctx context.Context) (bool, error) {
	input := &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(c.config.CollectionID),
	}

	_, err := c.rekognition.DescribeCollection(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeResourceNotFound {
			return false, nil
		}
		return false, fmt.Errorf("describe collection %s: %w", c.config.CollectionID, classifyError(err))
	}

	return true, nil
}

// logAudit logs an audit event if an audit logger is configured
// Audit failure does not affect the operation (fire-and-forget)
func (c *Client) logAudit(ctx context.Context, event audit.Event, err error) {
	event.Provider = providerName
	event.Success = err == nil
	event.JobID = jobs.JobIDFromContext(ctx)
	if err != nil {
		event.Error = err.Error()
	}

	_ = c.auditLogger.Log(ctx, event)
}

// classifyError tags well-known AWS error codes with a sentinel error.
// The original error stays in the chain for errors.As.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case errCodeAccessDenied:
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case errCodeResourceNotFound:
		return fmt.Errorf("%w: %w", ErrCollectionNotFound, err)
	case errCodeSessionNotFound:
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	case errCodeInvalidS3Object, errCodeInvalidImageFormat:
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	case errCodeInvalidParameter:
		// Rekognition reports "no face in image" as an invalid parameter
		return fmt.Errorf("%w: %w", ErrNoFaceDetected, err)
	case errCodeThrottling, errCodeThroughput:
		return fmt.Errorf("%w: %w", ErrThrottled, err)
	}

	return err
}

// ParseIndexFacesError interprets the unindexed faces reported by IndexFaces
func ParseIndexFacesError(unindexedFaces []types.UnindexedFace) error {
	if len(unindexedFaces) == 0 {
		return nil
	}

	// Check the first unindexed face for the reason
	face := unindexedFaces[0]
	if len(face.Reasons) > 0 {
		switch face.Reasons[0] {
		case types.ReasonExceedsMaxFaces:
			return ErrMultipleFaces
		case types.ReasonExtremePose, types.ReasonLowBrightness,
			types.ReasonLowSharpness, types.ReasonLowConfidence,
			types.ReasonSmallBoundingBox, types.ReasonLowFaceQuality:
			return fmt.Errorf("%w: %s", ErrNoFaceDetected, face.Reasons[0])
		}
	}

	return ErrNoFaceDetected
}
