package s3

import (
	"context"
	"fmt"
	"log/slog"

	"ferry/internal/backend/registry"
	"ferry/internal/config"
	"ferry/pkg/common"
	"ferry/pkg/storage"
	"ferry/pkg/transfer"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

func init() {
	registry.RegisterBackend("s3", registry.Registration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the S3 configuration block is present and carries the
// endpoint, bucket and both credential halves
func isConfigured(cfg *config.Config) bool {
	return cfg.S3 != nil &&
		cfg.S3.Endpoint != "" &&
		cfg.S3.Bucket != "" &&
		cfg.S3.AccessKey != "" &&
		cfg.S3.SecretKey != ""
}

// Initializes the S3 storage client from the configuration
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("S3 configuration missing or incomplete")
	}
	return NewS3Storage(ctx, cfg.S3, logger)
}

type S3Storage struct {
	client *awss3.Client
	bucket string
	logger *slog.Logger
}

var _ storage.Storage = (*S3Storage)(nil)

func NewS3Storage(ctx context.Context, settings *config.S3Settings, logger *slog.Logger) (*S3Storage, error) {
	region := settings.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 client configuration: %w", err)
	}

	endpoint := transfer.NormalizeEndpoint(settings.Endpoint)
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = settings.UsePathStyle
	})

	return &S3Storage{
		client: client,
		bucket: settings.Bucket,
		logger: logger,
	}, nil
}

func (s *S3Storage) ProviderName() common.Provider {
	return common.S3
}

func (s *S3Storage) Close() error {
	// The SDK client holds no resources that need explicit release
	return nil
}
