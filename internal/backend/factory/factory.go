package factory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ferry/internal/backend/registry"
	"ferry/internal/config"
	"ferry/pkg/storage"
)

type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// IsConfigured checks whether a backend is registered and has the
// configuration it needs.
func (f *Factory) IsConfigured(name string) bool {
	registration, exists := registry.GetRegistration(name)
	if !exists {
		return false
	}
	return registration.ConfigCheck(f.cfg)
}

// GetStorageBackend initializes the storage client for the named
// backend. An empty name resolves to the configured active backend.
func (f *Factory) GetStorageBackend(ctx context.Context, name string) (storage.Storage, error) {
	if name == "" {
		name = f.cfg.ActiveBackend()
	}
	if name == "" {
		return nil, fmt.Errorf("no storage backend configured. Use 'ferry config set s3.<key> <value>' or 'ferry config set gcs.<key> <value>'")
	}

	normalized := strings.ToLower(name)
	backendLogger := f.logger.With("backend", normalized)

	registration, exists := registry.GetRegistration(normalized)
	if !exists {
		return nil, fmt.Errorf("unsupported backend: %s. Supported backends are: %v", name, registry.SupportedBackends())
	}

	if !registration.ConfigCheck(f.cfg) {
		return nil, fmt.Errorf("backend '%s' is not configured. Use 'ferry config set %s.<key> <value>'", normalized, normalized)
	}

	client, err := registration.Initializer(ctx, f.cfg, backendLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend %s: %w", normalized, err)
	}

	return client, nil
}
