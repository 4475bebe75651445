package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// S3Settings configures the S3-compatible backend. Endpoint accepts any
// S3-compatible store (AWS, MinIO, OBS) with or without a scheme.
type S3Settings struct {
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint" validate:"required"`
	Bucket       string `mapstructure:"bucket" yaml:"bucket" validate:"required"`
	AccessKey    string `mapstructure:"access_key" yaml:"access_key" validate:"required"`
	SecretKey    string `mapstructure:"secret_key" yaml:"secret_key" validate:"required"`
	Region       string `mapstructure:"region" yaml:"region,omitempty"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style,omitempty"`
}

// GCSSettings configures the Google Cloud Storage backend.
type GCSSettings struct {
	Project string `mapstructure:"project" yaml:"project" validate:"required"`
	Bucket  string `mapstructure:"bucket" yaml:"bucket" validate:"required"`
	// Endpoint is only used for synthesizing public object URLs.
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file,omitempty"`
}

// Limits bounds per-request resource consumption. All ceilings are
// configuration, never hardcoded in the transfer core.
type Limits struct {
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	MaxFetchBytes  int64         `mapstructure:"max_fetch_bytes" yaml:"max_fetch_bytes"`
	MaxBatchItems  int           `mapstructure:"max_batch_items" yaml:"max_batch_items"`
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

type Config struct {
	// Backend selects which configured backend transfers run against.
	Backend string       `mapstructure:"backend" yaml:"backend" validate:"omitempty,oneof=s3 gcs"`
	S3      *S3Settings  `mapstructure:"s3" yaml:"s3,omitempty"`
	GCS     *GCSSettings `mapstructure:"gcs" yaml:"gcs,omitempty"`
	Limits  Limits       `mapstructure:"limits" yaml:"limits"`
}

const (
	DefaultEndpointGCS = "storage.googleapis.com"

	defaultMaxUploadBytes = 100 << 20
	defaultMaxFetchBytes  = 100 << 20
	defaultMaxBatchItems  = 10
	defaultMaxConcurrency = 4
	defaultRequestTimeout = 30 * time.Second
)

var validate = validator.New()

// Validate checks structural invariants. Required fields are only
// enforced inside backend blocks that are present; the factory decides
// whether a backend is configured at all.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ActiveBackend resolves the backend name, preferring the explicit
// setting and falling back to whichever single backend is configured.
func (c *Config) ActiveBackend() string {
	if c.Backend != "" {
		return c.Backend
	}
	if c.S3 != nil && c.GCS == nil {
		return "s3"
	}
	if c.GCS != nil && c.S3 == nil {
		return "gcs"
	}
	return ""
}

// Endpoint returns the URL-synthesis endpoint for the active backend.
func (c *Config) Endpoint() string {
	switch c.ActiveBackend() {
	case "s3":
		if c.S3 != nil {
			return c.S3.Endpoint
		}
	case "gcs":
		if c.GCS != nil {
			if c.GCS.Endpoint != "" {
				return c.GCS.Endpoint
			}
			return DefaultEndpointGCS
		}
	}
	return ""
}

// Bucket returns the target bucket for the active backend.
func (c *Config) Bucket() string {
	switch c.ActiveBackend() {
	case "s3":
		if c.S3 != nil {
			return c.S3.Bucket
		}
	case "gcs":
		if c.GCS != nil {
			return c.GCS.Bucket
		}
	}
	return ""
}
