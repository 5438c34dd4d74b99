package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// AWS
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSKMSKeyID        string `envconfig:"AWS_KMS_KEY_ID"`

	// Rekognition
	CollectionID string `envconfig:"AWS_REKOGNITION_COLLECTION_ID" required:"true"`
	OutputBucket string `envconfig:"AWS_S3_BUCKET" required:"true"`

	// Background jobs
	JobWorkers   int           `envconfig:"JOB_WORKERS" default:"4"`
	JobQueueSize int           `envconfig:"JOB_QUEUE_SIZE" default:"100"`
	JobTimeout   time.Duration `envconfig:"JOB_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// LoadEnvFile copies variables from a dotenv file into the process environment.
// Variables already set are kept, and a missing file is not an error.
func LoadEnvFile(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasStaticCredentials is false when the AWS default credential chain should be used
func (c *Config) HasStaticCredentials() bool {
	return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}
