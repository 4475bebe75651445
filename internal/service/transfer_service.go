package service

import (
	"context"
	"fmt"
	"log/slog"

	"ferry/internal/backend/factory"
	"ferry/internal/config"
	"ferry/pkg/storage"
	"ferry/pkg/transfer"
)

// StatusReport describes the configured backend and the reachability of
// its bucket.
type StatusReport struct {
	Backend  string
	Endpoint string
	Bucket   storage.BucketInfo
}

type TransferService struct {
	backendFactory *factory.Factory
	cfg            *config.Config
	logger         *slog.Logger
}

func NewTransferService(backendFactory *factory.Factory, cfg *config.Config, logger *slog.Logger) *TransferService {
	return &TransferService{
		backendFactory: backendFactory,
		cfg:            cfg,
		logger:         logger.With("service", "TransferService"),
	}
}

func (s *TransferService) Upload(ctx context.Context, req transfer.Request) (transfer.Result, error) {
	s.logger.Debug("Starting Upload operation", "source", req.SourceName, "directory", req.Directory)

	client, tr, err := s.transferrer(ctx)
	if err != nil {
		return transfer.Result{}, err
	}
	defer client.Close()

	result, err := tr.Upload(ctx, req)
	if err != nil {
		s.logger.Error("Upload rejected", "source", req.SourceName, "error", err)
		return transfer.Result{}, err
	}
	if result.Status == transfer.StatusFailed {
		s.logger.Error("Upload failed", "source", req.SourceName, "error", result.ErrorMessage)
	}
	return result, nil
}

// UploadBatch transfers every request with bounded concurrency. A
// failed item never aborts its siblings; onItem fires as each item
// finishes.
func (s *TransferService) UploadBatch(ctx context.Context, reqs []transfer.Request, onItem func(index int, r transfer.Result)) (transfer.BatchResult, error) {
	s.logger.Debug("Starting UploadBatch operation", "items", len(reqs))

	client, tr, err := s.transferrer(ctx)
	if err != nil {
		return transfer.BatchResult{}, err
	}
	defer client.Close()

	coord := s.coordinator(tr, onItem)
	batch, err := coord.UploadAll(ctx, reqs)
	if err != nil {
		s.logger.Error("UploadBatch rejected", "items", len(reqs), "error", err)
		return transfer.BatchResult{}, err
	}

	s.logger.Debug("UploadBatch finished", "succeeded", batch.Succeeded, "failed", batch.Failed)
	return batch, nil
}

func (s *TransferService) Fetch(ctx context.Context, rawURL string) (transfer.Result, error) {
	s.logger.Debug("Starting Fetch operation", "url", rawURL)

	client, tr, err := s.transferrer(ctx)
	if err != nil {
		return transfer.Result{}, err
	}
	defer client.Close()

	result, err := tr.FetchByURL(ctx, rawURL)
	if err != nil {
		s.logger.Error("Fetch rejected", "url", rawURL, "error", err)
		return transfer.Result{}, err
	}
	if result.Status == transfer.StatusFailed {
		s.logger.Error("Fetch failed", "url", rawURL, "error", result.ErrorMessage)
	}
	return result, nil
}

func (s *TransferService) FetchBatch(ctx context.Context, urls []string, onItem func(index int, r transfer.Result)) (transfer.BatchResult, error) {
	s.logger.Debug("Starting FetchBatch operation", "items", len(urls))

	client, tr, err := s.transferrer(ctx)
	if err != nil {
		return transfer.BatchResult{}, err
	}
	defer client.Close()

	coord := s.coordinator(tr, onItem)
	batch, err := coord.FetchAll(ctx, urls)
	if err != nil {
		s.logger.Error("FetchBatch rejected", "items", len(urls), "error", err)
		return transfer.BatchResult{}, err
	}

	s.logger.Debug("FetchBatch finished", "succeeded", batch.Succeeded, "failed", batch.Failed)
	return batch, nil
}

// FetchPublic downloads from an arbitrary public URL without touching
// the configured backend.
func (s *TransferService) FetchPublic(ctx context.Context, rawURL string) (transfer.Result, error) {
	s.logger.Debug("Starting FetchPublic operation", "url", rawURL)

	fetcher := transfer.NewPublicFetcher(s.cfg.Limits.RequestTimeout, s.cfg.Limits.MaxFetchBytes)
	result, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Error("FetchPublic rejected", "url", rawURL, "error", err)
		return transfer.Result{}, err
	}
	if result.Status == transfer.StatusFailed {
		s.logger.Error("FetchPublic failed", "url", rawURL, "error", result.ErrorMessage)
	}
	return result, nil
}

// Status validates the configured credentials by probing the bucket.
func (s *TransferService) Status(ctx context.Context) (StatusReport, error) {
	backend := s.cfg.ActiveBackend()
	s.logger.Debug("Starting Status operation", "backend", backend)

	client, err := s.storageClient(ctx)
	if err != nil {
		return StatusReport{}, err
	}
	defer client.Close()

	info, err := client.HeadBucket(ctx, s.cfg.Bucket())
	if err != nil {
		s.logger.Error("Bucket probe failed", "backend", backend, "bucket", s.cfg.Bucket(), "error", err)
		return StatusReport{}, err
	}

	return StatusReport{
		Backend:  backend,
		Endpoint: s.cfg.Endpoint(),
		Bucket:   info,
	}, nil
}

func (s *TransferService) transferrer(ctx context.Context) (storage.Storage, *transfer.Transferrer, error) {
	client, err := s.storageClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	tr := transfer.New(client, transfer.Config{
		Endpoint:       s.cfg.Endpoint(),
		Bucket:         s.cfg.Bucket(),
		MaxUploadBytes: s.cfg.Limits.MaxUploadBytes,
	})
	return client, tr, nil
}

func (s *TransferService) coordinator(tr *transfer.Transferrer, onItem func(index int, r transfer.Result)) *transfer.Coordinator {
	coord := transfer.NewCoordinator(tr, s.cfg.Limits.MaxBatchItems, s.cfg.Limits.MaxConcurrency)
	coord.OnResult = onItem
	return coord
}

// Helper to initialize the storage client and handle common error logging
func (s *TransferService) storageClient(ctx context.Context) (storage.Storage, error) {
	client, err := s.backendFactory.GetStorageBackend(ctx, "")
	if err != nil {
		s.logger.Error("Failed to initialize backend", "error", err)
		return nil, fmt.Errorf("error initializing backend: %w", err)
	}
	return client, nil
}
