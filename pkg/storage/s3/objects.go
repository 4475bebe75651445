package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ferry/pkg/common"
	"ferry/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func (s *S3Storage) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	s.logger.Debug("Starting S3 PutObject operation", "bucket", bucket, "key", key, "size", len(body))

	input := &awss3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *S3Storage) Get(ctx context.Context, bucket, key string) (storage.Object, error) {
	s.logger.Debug("Starting S3 GetObject operation", "bucket", bucket, "key", key)

	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storage.Object{}, mapError(err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return storage.Object{}, fmt.Errorf("error reading object body: %w", err)
	}

	obj := storage.Object{
		Key:      key,
		Bucket:   bucket,
		Provider: common.S3,
		Body:     body,
		Size:     int64(len(body)),
	}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	return obj, nil
}

func (s *S3Storage) HeadBucket(ctx context.Context, bucket string) (storage.BucketInfo, error) {
	s.logger.Debug("Starting S3 HeadBucket operation", "bucket", bucket)

	out, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return storage.BucketInfo{}, mapError(err)
	}

	info := storage.BucketInfo{
		Name:       bucket,
		Provider:   common.S3,
		UsageBytes: -1,
		CreatedAt:  time.Time{},
	}
	if out.BucketRegion != nil {
		info.Location = *out.BucketRegion
	}
	return info, nil
}

// Maps SDK errors to the domain error vocabulary. Typed S3 errors are
// checked first, then the generic API error code, then the raw HTTP
// status.
func mapError(err error) error {
	var noSuchKey *s3types.NoSuchKey
	var noSuchBucket *s3types.NoSuchBucket
	var notFound *s3types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) || errors.As(err, &notFound) {
		return storage.ErrNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return storage.ErrNotFound
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return storage.ErrAccessDenied
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch code := respErr.HTTPStatusCode(); code {
		case 404:
			return storage.ErrNotFound
		case 401, 403:
			return storage.ErrAccessDenied
		default:
			return &storage.StatusError{Code: code, Message: err.Error()}
		}
	}

	return err
}
