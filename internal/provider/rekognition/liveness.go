package rekognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/audit"
	"github.com/saturnino-fabrica-de-software/face-liveness-relay/internal/domain"
)

// CreateLivenessSession starts a Face Liveness session. Every call uses a new
// client request token, so retries of the same HTTP request create new sessions.
func (c *Client) CreateLivenessSession(ctx context.Context) (*domain.LivenessSession, error) {
	token := uuid.NewString()

	input := &rekognition.CreateFaceLivenessSessionInput{
		ClientRequestToken: aws.String(token),
		KmsKeyId:           optionalString(c.config.KMSKeyID),
		Settings: &types.CreateFaceLivenessSessionRequestSettings{
			OutputConfig: &types.LivenessOutputConfig{
				S3Bucket:    aws.String(c.config.OutputBucket),
				S3KeyPrefix: aws.String(LivenessKeyPrefix),
			},
			AuditImagesLimit: aws.Int32(AuditImagesLimit),
		},
	}

	output, err := c.rekognition.CreateFaceLivenessSession(ctx, input)
	if err != nil {
		err = classifyError(err)
		c.logAudit(ctx, audit.Event{
			EventType: audit.EventLivenessSessionCreated,
			Metadata:  map[string]string{"client_request_token": token},
		}, err)
		return nil, fmt.Errorf("create face liveness session: %w", err)
	}

	session := &domain.LivenessSession{SessionID: output.SessionId}

	c.logAudit(ctx, audit.Event{
		EventType: audit.EventLivenessSessionCreated,
		SessionID: aws.ToString(output.SessionId),
		Metadata:  map[string]string{"client_request_token": token},
	}, nil)

	c.logger.DebugContext(ctx, "liveness session created",
		"session_id", aws.ToString(output.SessionId),
		"client_request_token", token,
	)

	return session, nil
}

// GetLivenessSessionResult fetches the outcome of a liveness session as
// reported by the vendor, whatever its status
func (c *Client) GetLivenessSessionResult(ctx context.Context, sessionID string) (*domain.LivenessSessionResult, error) {
	input := &rekognition.GetFaceLivenessSessionResultsInput{
		SessionId: aws.String(sessionID),
	}

	output, err := c.rekognition.GetFaceLivenessSessionResults(ctx, input)
	if err != nil {
		err = classifyError(err)
		c.logAudit(ctx, audit.Event{
			EventType: audit.EventLivenessResultFetched,
			SessionID: sessionID,
		}, err)
		return nil, fmt.Errorf("session %s: get face liveness session results: %w", sessionID, err)
	}

	result := &domain.LivenessSessionResult{
		SessionID:      output.SessionId,
		Status:         string(output.Status),
		Confidence:     output.Confidence,
		ReferenceImage: fromAuditImage(output.ReferenceImage),
		AuditImages:    fromAuditImages(output.AuditImages),
		Challenge:      fromChallenge(output.Challenge),
	}

	metadata := map[string]string{"status": result.Status}
	if output.Confidence != nil {
		metadata["confidence"] = fmt.Sprintf("%.4f", *output.Confidence)
	}
	c.logAudit(ctx, audit.Event{
		EventType: audit.EventLivenessResultFetched,
		SessionID: sessionID,
		Metadata:  metadata,
	}, nil)

	return result, nil
}
