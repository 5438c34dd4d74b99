package rekognition

const (
	// LivenessKeyPrefix is the S3 key prefix for liveness reference and audit images
	LivenessKeyPrefix = "face-liveness"

	// AuditImagesLimit is the number of audit images Rekognition stores per session
	AuditImagesLimit = 4
)

// Config holds configuration for the AWS Rekognition client
type Config struct {
	// Region is the AWS region where Rekognition service will be used (e.g., "us-east-1")
	Region string

	// AccessKeyID and SecretAccessKey are optional static credentials.
	// When both are empty the AWS default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// KMSKeyID encrypts liveness images written to OutputBucket
	KMSKeyID string

	// CollectionID is the pre-existing face collection used for index and search
	CollectionID string

	// OutputBucket receives the liveness reference and audit images
	OutputBucket string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region: "us-east-1",
	}
}

// HasStaticCredentials reports whether an explicit key pair was configured
func (c Config) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}
