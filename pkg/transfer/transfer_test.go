package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ferry/pkg/common"
	"ferry/pkg/storage"
)

// fakeStore is an in-memory Storage capability for tests.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]storage.Object
	putErr  map[string]error
	getErr  map[string]error
	puts    int
	gets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string]storage.Object),
		putErr:  make(map[string]error),
		getErr:  make(map[string]error),
	}
}

func (f *fakeStore) ProviderName() common.Provider { return common.S3 }

func (f *fakeStore) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if err, ok := f.putErr[key]; ok {
		return err
	}
	f.objects[bucket+"/"+key] = storage.Object{
		Key:         key,
		Bucket:      bucket,
		Body:        append([]byte(nil), body...),
		ContentType: contentType,
		Size:        int64(len(body)),
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, bucket, key string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if err, ok := f.getErr[key]; ok {
		return storage.Object{}, err
	}
	obj, ok := f.objects[bucket+"/"+key]
	if !ok {
		return storage.Object{}, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, bucket, key)
	}
	return obj, nil
}

func (f *fakeStore) HeadBucket(ctx context.Context, bucket string) (storage.BucketInfo, error) {
	return storage.BucketInfo{Name: bucket, Provider: common.S3, UsageBytes: -1}, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) calls() (puts, gets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts, f.gets
}

func newTestTransferrer(store *fakeStore) *Transferrer {
	tr := New(store, Config{
		Endpoint:       "obs.example.com",
		Bucket:         "media",
		MaxUploadBytes: 1 << 20,
	})
	return tr.WithClock(func() time.Time { return testNow })
}

func TestUploadSuccess(t *testing.T) {
	store := newFakeStore()
	tr := newTestTransferrer(store)

	res, err := tr.Upload(context.Background(), Request{
		SourceName:          "report.pdf",
		Body:                []byte("%PDF-1.7 content"),
		Directory:           "docs",
		DeclaredContentType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s)", res.Status, res.ErrorMessage)
	}
	if res.URL != "https://obs.example.com/media/docs/report.pdf" {
		t.Fatalf("url = %q", res.URL)
	}
	if res.ContentType != "application/pdf" {
		t.Fatalf("content type = %q", res.ContentType)
	}
	if res.SizeBytes != 16 {
		t.Fatalf("size = %d", res.SizeBytes)
	}
}

func TestUploadValidationFailsFast(t *testing.T) {
	store := newFakeStore()
	tr := newTestTransferrer(store)
	ctx := context.Background()

	if _, err := tr.Upload(ctx, Request{SourceName: "a.txt", Directory: "d"}); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("err = %v, want ErrEmptyPayload", err)
	}

	big := bytes.Repeat([]byte("x"), (1<<20)+1)
	if _, err := tr.Upload(ctx, Request{SourceName: "a.txt", Directory: "d", Body: big}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want ErrPayloadTooLarge", err)
	}

	if _, err := tr.Upload(ctx, Request{SourceName: "a.txt", Directory: "../d", Body: []byte("x")}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("err = %v, want ErrInvalidPath", err)
	}

	if puts, _ := store.calls(); puts != 0 {
		t.Fatalf("validation errors must precede network calls, saw %d puts", puts)
	}
}

func TestUploadTransportFailureBecomesFailedResult(t *testing.T) {
	store := newFakeStore()
	store.putErr["d/a.txt"] = &storage.StatusError{Code: 503, Message: "slow down"}
	tr := newTestTransferrer(store)

	res, err := tr.Upload(context.Background(), Request{SourceName: "a.txt", Directory: "d", Body: []byte("x")})
	if err != nil {
		t.Fatalf("transport failures must not propagate, got %v", err)
	}
	if res.Status != StatusFailed {
		t.Fatalf("status = %v", res.Status)
	}
	if !strings.Contains(res.ErrorMessage, "503") {
		t.Fatalf("error message %q should preserve the status code", res.ErrorMessage)
	}
}

func TestUploadTimeoutIsFlagged(t *testing.T) {
	store := newFakeStore()
	store.putErr["d/a.txt"] = context.DeadlineExceeded
	tr := newTestTransferrer(store)

	res, err := tr.Upload(context.Background(), Request{SourceName: "a.txt", Directory: "d", Body: []byte("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.TimedOut || res.Status != StatusFailed {
		t.Fatalf("result = %+v, want flagged timeout", res)
	}
}

func TestUploadFetchRoundTrip(t *testing.T) {
	store := newFakeStore()
	tr := newTestTransferrer(store)
	ctx := context.Background()

	payload := []byte("\x89PNG\r\n\x1a\nfake image bytes")
	up, err := tr.Upload(ctx, Request{SourceName: "logo.png", Body: payload, Directory: "img"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if up.Status != StatusSuccess {
		t.Fatalf("upload failed: %s", up.ErrorMessage)
	}

	down, err := tr.FetchByURL(ctx, up.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if down.Status != StatusSuccess {
		t.Fatalf("fetch failed: %s", down.ErrorMessage)
	}
	if !bytes.Equal(down.Body, payload) {
		t.Fatal("fetched bytes differ from uploaded bytes")
	}
	if down.ContentType != up.ContentType {
		t.Fatalf("content type %q != %q", down.ContentType, up.ContentType)
	}
}

func TestFetchByURLUntrustedHost(t *testing.T) {
	store := newFakeStore()
	tr := newTestTransferrer(store)

	res, err := tr.FetchByURL(context.Background(), "https://other.example.org/media/a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusFailed || !strings.Contains(res.ErrorMessage, "configured storage endpoint") {
		t.Fatalf("result = %+v, want untrusted-source failure", res)
	}
	if _, gets := store.calls(); gets != 0 {
		t.Fatal("untrusted urls must not reach the store")
	}
}

func TestFetchByURLStatusMapping(t *testing.T) {
	store := newFakeStore()
	store.getErr["d/missing.txt"] = storage.ErrNotFound
	store.getErr["d/locked.txt"] = storage.ErrAccessDenied
	tr := newTestTransferrer(store)
	ctx := context.Background()

	res, err := tr.FetchByURL(ctx, "https://obs.example.com/media/d/missing.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.ErrorMessage, "not found") {
		t.Fatalf("message = %q", res.ErrorMessage)
	}

	res, err = tr.FetchByURL(ctx, "https://obs.example.com/media/d/locked.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.ErrorMessage, "access denied") {
		t.Fatalf("message = %q", res.ErrorMessage)
	}
}

func TestFetchByURLVirtualHostStyle(t *testing.T) {
	store := newFakeStore()
	tr := newTestTransferrer(store)
	ctx := context.Background()

	if _, err := tr.Upload(ctx, Request{SourceName: "a.txt", Body: []byte("hello"), Directory: "d"}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	res, err := tr.FetchByURL(ctx, "https://media.obs.example.com/d/a.txt")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("fetch failed: %s", res.ErrorMessage)
	}
}
