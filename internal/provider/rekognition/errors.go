package rekognition

import "errors"

var (
	// ErrCollectionNotFound indicates that the configured collection does not exist
	ErrCollectionNotFound = errors.New("rekognition collection not found")

	// ErrSessionNotFound indicates that the liveness session does not exist or has expired
	ErrSessionNotFound = errors.New("liveness session not found")

	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates that the referenced S3 object could not be read as an image
	ErrInvalidImage = errors.New("invalid S3 image reference")

	// ErrNoFaceDetected indicates that no face was found in the provided image
	ErrNoFaceDetected = errors.New("no face detected in image")

	// ErrMultipleFaces indicates that multiple faces were detected when only one was expected
	ErrMultipleFaces = errors.New("multiple faces detected in image")

	// ErrThrottled indicates that the request was rejected by AWS rate limits
	ErrThrottled = errors.New("rekognition request throttled")
)
