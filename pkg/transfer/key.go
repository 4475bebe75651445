package transfer

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ResolveKey derives the storage key for a request. It is a pure
// function of the request, the inferred extension, and now; now feeds
// both the date-based directory modes and the filename_timestamp mode.
//
// The timestamp suffix is the Unix time in milliseconds, appended as
// "_<millis>" before the extension. Millisecond resolution keeps
// repeated uploads of the same source name distinct within a batch.
func ResolveKey(req Request, ext string, now time.Time) (StorageKey, error) {
	dirs, err := sanitizeDirectory(req.Directory)
	if err != nil {
		return StorageKey{}, err
	}

	switch req.DirectoryMode {
	case DirModeDateHierarchy:
		dirs = append(dirs, now.Format("2006"), now.Format("01"), now.Format("02"))
	case DirModeDateCombined:
		dirs = append(dirs, now.Format("20060102"))
	}

	base, keptExt, err := resolveBasename(req)
	if err != nil {
		return StorageKey{}, err
	}

	// An extension already chosen by the caller is never replaced.
	if keptExt == "" {
		keptExt = ext
	}

	if req.FilenameMode == NameModeTimestamp {
		base = fmt.Sprintf("%s_%d", base, now.UnixMilli())
	}

	return StorageKey{
		DirectoryPath: dirs,
		Filename:      base,
		Extension:     keptExt,
	}, nil
}

// sanitizeDirectory strips surrounding separators and whitespace and
// splits the directory into its path segments. The directory is
// mandatory; traversal segments are rejected outright.
func sanitizeDirectory(dir string) ([]string, error) {
	trimmed := strings.Trim(strings.TrimSpace(dir), "/\\")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: directory is required", ErrInvalidPath)
	}

	var segments []string
	for _, seg := range strings.Split(trimmed, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if seg == ".." || seg == "." {
			return nil, fmt.Errorf("%w: %q resolves outside the bucket root", ErrInvalidPath, dir)
		}
		if strings.Contains(seg, "\\") {
			return nil, fmt.Errorf("%w: backslash in segment %q", ErrInvalidPath, seg)
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: directory is required", ErrInvalidPath)
	}
	return segments, nil
}

// resolveBasename picks the filename stem and, when the caller already
// chose one, its extension.
func resolveBasename(req Request) (base, ext string, err error) {
	name := strings.TrimSpace(req.Filename)
	if name == "" {
		name = strings.TrimSpace(path.Base(strings.TrimSpace(req.SourceName)))
		if name == "." || name == "/" {
			name = ""
		}
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: no source name and no explicit filename", ErrMissingFilename)
	}
	if strings.ContainsAny(name, "/\\") {
		return "", "", fmt.Errorf("%w: filename %q contains a path separator", ErrInvalidPath, name)
	}

	ext = strings.ToLower(path.Ext(name))
	base = strings.TrimSuffix(name, path.Ext(name))
	if base == "" {
		// Names like ".env": treat the whole name as the stem.
		base = name
		ext = ""
	}
	return base, ext, nil
}
