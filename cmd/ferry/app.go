package main

import (
	"log/slog"

	"ferry/internal/backend/factory"
	"ferry/internal/config"
	"ferry/internal/service"
	"ferry/pkg/formatter"
)

// appContainer holds all the shared dependencies for the application
// This includes configuration, service clients, formatters, and the logger
type appContainer struct {
	Config          *config.Config
	ConfigManager   *config.ConfigManager
	BackendFactory  *factory.Factory
	TransferService *service.TransferService
	Formatter       *formatter.TransferFormatter
	Logger          *slog.Logger
}

// Creates and initializes a new application container
func newApp(logger *slog.Logger) (*appContainer, error) {
	cfgManager, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	backendFactory := factory.NewFactory(cfg, logger)
	transferService := service.NewTransferService(backendFactory, cfg, logger)
	transferFormatter := formatter.NewTransferFormatter()

	return &appContainer{
		Config:          cfg,
		ConfigManager:   cfgManager,
		BackendFactory:  backendFactory,
		TransferService: transferService,
		Formatter:       transferFormatter,
		Logger:          logger,
	}, nil
}
