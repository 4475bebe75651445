package storage

import (
	"fmt"
	"time"

	"ferry/pkg/common"
)

// Object is a fully materialized object read from a bucket.
type Object struct {
	Key         string
	Bucket      string
	Provider    common.Provider
	Body        []byte
	ContentType string
	Size        int64
}

type BucketInfo struct {
	Name     string
	Provider common.Provider
	Location string
	// A value of -1 indicates that the usage is unknown or could not be retrieved
	UsageBytes int64
	CreatedAt  time.Time
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}
