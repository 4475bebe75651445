package storage

import (
	"context"

	"ferry/pkg/common"
)

// Storage is the object-store capability the transfer core runs against.
// Implementations wrap a concrete SDK client and translate its failures
// into the typed errors defined in this package.
type Storage interface {
	ProviderName() common.Provider

	// Put writes body to bucket/key with the given content type.
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error

	// Get reads the object at bucket/key in full.
	Get(ctx context.Context, bucket, key string) (Object, error)

	// HeadBucket verifies the bucket exists and is reachable with the
	// configured credentials.
	HeadBucket(ctx context.Context, bucket string) (BucketInfo, error)

	Close() error
}
