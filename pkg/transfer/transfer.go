package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"ferry/pkg/storage"
)

// Config is the read-only configuration a Transferrer operates under.
type Config struct {
	Endpoint string
	Bucket   string

	// MaxUploadBytes caps a single upload payload. Zero disables the
	// ceiling.
	MaxUploadBytes int64
}

// Transferrer performs single uploads and bucket-scoped fetches against
// a storage capability, producing normalized Results.
type Transferrer struct {
	store storage.Storage
	cfg   Config

	// now is injectable for deterministic key resolution in tests.
	now func() time.Time

	// lastStamp tracks the last millisecond handed to key resolution so
	// timestamped filenames stay unique even when transfers land inside
	// the same millisecond.
	stampMu   sync.Mutex
	lastStamp int64
}

func New(store storage.Storage, cfg Config) *Transferrer {
	return &Transferrer{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// WithClock overrides the clock used for key resolution.
func (t *Transferrer) WithClock(now func() time.Time) *Transferrer {
	t.now = now
	return t
}

// keyClock returns a monotonically advancing timestamp with at least
// millisecond spacing between calls.
func (t *Transferrer) keyClock() time.Time {
	now := t.now()

	t.stampMu.Lock()
	defer t.stampMu.Unlock()

	ms := now.UnixMilli()
	if ms <= t.lastStamp {
		now = now.Add(time.Duration(t.lastStamp+1-ms) * time.Millisecond)
		ms = t.lastStamp + 1
	}
	t.lastStamp = ms
	return now
}

// Upload validates the request, resolves its key and content type, and
// writes the payload. Input-validation failures return an error before
// any network call; transport failures are encoded into a Failed
// Result so callers always receive a result per item.
func (t *Transferrer) Upload(ctx context.Context, req Request) (Result, error) {
	if len(req.Body) == 0 {
		return Result{}, fmt.Errorf("%w: upload requires a non-empty payload", ErrEmptyPayload)
	}
	if t.cfg.MaxUploadBytes > 0 && int64(len(req.Body)) > t.cfg.MaxUploadBytes {
		return Result{}, fmt.Errorf("%w: %d bytes (ceiling %d)", ErrPayloadTooLarge, len(req.Body), t.cfg.MaxUploadBytes)
	}

	contentType, ext := InferType(req.DeclaredContentType, req.Body, req.SourceName)

	key, err := ResolveKey(req, ext, t.keyClock())
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Key:              key,
		URL:              ObjectURL(t.cfg.Endpoint, t.cfg.Bucket, key),
		OriginalFilename: req.SourceName,
		ContentType:      contentType,
		SizeBytes:        int64(len(req.Body)),
	}

	if err := t.store.Put(ctx, t.cfg.Bucket, key.String(), req.Body, contentType); err != nil {
		return failed(result, err), nil
	}

	result.Status = StatusSuccess
	return result, nil
}

// FetchByURL retrieves an object by its access URL. Only URLs rooted at
// the configured endpoint are trusted; anything else is encoded as a
// Failed Result, as are transport and authorization failures.
func (t *Transferrer) FetchByURL(ctx context.Context, rawURL string) (Result, error) {
	if rawURL == "" {
		return Result{}, errors.New("file url must not be empty")
	}

	result := Result{URL: rawURL}

	bucket, key, err := ParseObjectURL(t.cfg.Endpoint, rawURL)
	if err != nil {
		return failed(result, err), nil
	}

	result.OriginalFilename = path.Base(key)

	obj, err := t.store.Get(ctx, bucket, key)
	if err != nil {
		return failed(result, err), nil
	}

	result.Status = StatusSuccess
	result.Body = obj.Body
	result.SizeBytes = obj.Size
	result.ContentType = ContentTypeForExtension(obj.ContentType, result.OriginalFilename)
	result.Key = keyFromPath(key)
	return result, nil
}

// failed encodes err into result, flagging timeouts distinctly.
func failed(result Result, err error) Result {
	result.Status = StatusFailed

	switch {
	case errors.Is(err, storage.ErrNotFound):
		result.ErrorMessage = "not found: " + err.Error()
	case errors.Is(err, storage.ErrAccessDenied):
		result.ErrorMessage = "access denied: " + err.Error()
	case isTimeout(err):
		result.TimedOut = true
		result.ErrorMessage = "timeout: " + err.Error()
	default:
		if code, ok := storage.StatusCode(err); ok {
			result.ErrorMessage = fmt.Sprintf("transfer failed (status %d): %s", code, err.Error())
		} else {
			result.ErrorMessage = err.Error()
		}
	}
	return result
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return true
	}
	return false
}

// keyFromPath reconstructs a StorageKey from a raw object key.
func keyFromPath(key string) StorageKey {
	dir, name := path.Split(key)
	ext := path.Ext(name)
	var dirs []string
	if trimmed := strings.Trim(dir, "/"); trimmed != "" {
		dirs = strings.Split(trimmed, "/")
	}
	return StorageKey{
		DirectoryPath: dirs,
		Filename:      name[:len(name)-len(ext)],
		Extension:     ext,
	}
}
