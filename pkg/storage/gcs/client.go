package gcs

import (
	"context"
	"fmt"
	"log/slog"

	"ferry/internal/backend/registry"
	"ferry/internal/config"
	"ferry/pkg/common"
	"ferry/pkg/storage"

	gcsstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func init() {
	registry.RegisterBackend("gcs", registry.Registration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the GCS configuration block is present and the project ID is set
func isConfigured(cfg *config.Config) bool {
	return cfg.GCS != nil && cfg.GCS.Project != "" && cfg.GCS.Bucket != ""
}

// Initializes the GCS storage client from the configuration
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("GCS configuration missing or incomplete")
	}
	return NewGCSStorage(ctx, cfg.GCS, logger)
}

type GCSStorage struct {
	client    *gcsstorage.Client
	projectID string
	logger    *slog.Logger
}

var _ storage.Storage = (*GCSStorage)(nil)

func NewGCSStorage(ctx context.Context, settings *config.GCSSettings, logger *slog.Logger) (*GCSStorage, error) {
	var opts []option.ClientOption
	if settings.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsFile))
	}

	client, err := gcsstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSStorage{
		client:    client,
		projectID: settings.Project,
		logger:    logger,
	}, nil
}

func (g *GCSStorage) ProviderName() common.Provider {
	return common.GCS
}

func (g *GCSStorage) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
