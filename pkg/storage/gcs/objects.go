package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ferry/pkg/common"
	"ferry/pkg/storage"

	gcsstorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

func (g *GCSStorage) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	g.logger.Debug("Starting GCS object write", "bucket", bucket, "key", key, "size", len(body))

	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return mapError(err)
	}
	if err := w.Close(); err != nil {
		return mapError(err)
	}
	return nil
}

func (g *GCSStorage) Get(ctx context.Context, bucket, key string) (storage.Object, error) {
	g.logger.Debug("Starting GCS object read", "bucket", bucket, "key", key)

	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return storage.Object{}, mapError(err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return storage.Object{}, fmt.Errorf("error reading object body: %w", err)
	}

	return storage.Object{
		Key:         key,
		Bucket:      bucket,
		Provider:    common.GCS,
		Body:        body,
		ContentType: r.Attrs.ContentType,
		Size:        int64(len(body)),
	}, nil
}

func (g *GCSStorage) HeadBucket(ctx context.Context, bucket string) (storage.BucketInfo, error) {
	g.logger.Debug("Starting GCS bucket attribute fetch", "bucket", bucket)

	attrs, err := g.client.Bucket(bucket).Attrs(ctx)
	if err != nil {
		return storage.BucketInfo{}, mapError(err)
	}

	info := storage.BucketInfo{
		Name:       attrs.Name,
		Provider:   common.GCS,
		Location:   attrs.Location,
		UsageBytes: -1,
		CreatedAt:  attrs.Created,
	}

	// Usage comes from the Monitoring API and is best-effort; a bucket
	// with no reported metrics still has valid attributes.
	usage, err := g.getBucketUsage(ctx, bucket)
	if err != nil {
		if !errors.Is(err, ErrMetricsNotFound) {
			g.logger.Warn("Could not fetch bucket usage metrics", "bucket", bucket, "error", err)
		}
		return info, nil
	}
	info.UsageBytes = usage

	return info, nil
}

// Maps SDK errors to the domain error vocabulary
func mapError(err error) error {
	if errors.Is(err, gcsstorage.ErrObjectNotExist) || errors.Is(err, gcsstorage.ErrBucketNotExist) {
		return storage.ErrNotFound
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 404:
			return storage.ErrNotFound
		case 401, 403:
			return storage.ErrAccessDenied
		default:
			return &storage.StatusError{Code: apiErr.Code, Message: err.Error()}
		}
	}

	return err
}
