package transfer

import (
	"fmt"
	"strings"
)

// DirectoryMode governs how date folders are synthesized under the
// caller-given directory.
type DirectoryMode string

const (
	DirModeFlat          DirectoryMode = "no_subdirectory"
	DirModeDateHierarchy DirectoryMode = "yyyy_mm_dd_hierarchy"
	DirModeDateCombined  DirectoryMode = "yyyy_mm_dd_combined"
)

// FilenameMode governs whether a timestamp is appended to the stored
// filename.
type FilenameMode string

const (
	NameModePlain     FilenameMode = "filename"
	NameModeTimestamp FilenameMode = "filename_timestamp"
)

// ParseDirectoryMode maps a tool parameter value to a DirectoryMode.
// The empty string selects the default flat layout.
func ParseDirectoryMode(s string) (DirectoryMode, error) {
	switch DirectoryMode(s) {
	case "", DirModeFlat:
		return DirModeFlat, nil
	case DirModeDateHierarchy:
		return DirModeDateHierarchy, nil
	case DirModeDateCombined:
		return DirModeDateCombined, nil
	}
	return "", fmt.Errorf("unknown directory mode: %q", s)
}

// ParseFilenameMode maps a tool parameter value to a FilenameMode.
func ParseFilenameMode(s string) (FilenameMode, error) {
	switch FilenameMode(s) {
	case "", NameModePlain:
		return NameModePlain, nil
	case NameModeTimestamp:
		return NameModeTimestamp, nil
	}
	return "", fmt.Errorf("unknown filename mode: %q", s)
}

// Request describes one transfer. Exactly one of Body or SourceURL is
// populated: Body for uploads, SourceURL for fetches.
type Request struct {
	SourceName string
	Body       []byte
	SourceURL  string

	Directory     string
	DirectoryMode DirectoryMode
	FilenameMode  FilenameMode

	// Filename, when set, overrides the name derived from SourceName.
	Filename string

	// DeclaredContentType is the caller/transport-supplied MIME type,
	// if any. It takes priority over sniffing.
	DeclaredContentType string
}

// StorageKey identifies an object within the bucket.
type StorageKey struct {
	DirectoryPath []string
	Filename      string
	// Extension includes the leading dot, e.g. ".png". Empty when the
	// filename intentionally has none.
	Extension string
}

func (k StorageKey) String() string {
	name := k.Filename + k.Extension
	if len(k.DirectoryPath) == 0 {
		return name
	}
	return strings.Join(k.DirectoryPath, "/") + "/" + name
}

// Basename returns the filename with its extension.
func (k StorageKey) Basename() string {
	return k.Filename + k.Extension
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the normalized outcome of a single transfer. Immutable once
// produced; batches aggregate them index-aligned with their inputs.
type Result struct {
	Key              StorageKey `json:"key"`
	URL              string     `json:"url"`
	OriginalFilename string     `json:"original_filename"`
	ContentType      string     `json:"content_type"`
	SizeBytes        int64      `json:"size_bytes"`
	Status           Status     `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	TimedOut         bool       `json:"timed_out,omitempty"`

	// Body holds the fetched payload for retrieval operations. Never
	// populated for uploads and excluded from serialized results.
	Body []byte `json:"-"`
}

// BatchResult is the ordered outcome of a batch, index-aligned with the
// input sequence. Partial failure never nulls out other entries.
type BatchResult struct {
	Items     []Result `json:"items"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

func summarize(items []Result) BatchResult {
	br := BatchResult{Items: items}
	for _, r := range items {
		if r.Status == StatusSuccess {
			br.Succeeded++
		} else {
			br.Failed++
		}
	}
	return br
}
