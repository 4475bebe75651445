package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

const defaultPublicFilename = "downloaded_file"

// PublicFetcher retrieves content from arbitrary absolute URLs. Unlike
// Transferrer.FetchByURL it trusts any host and attaches no
// storage-specific authorization, so it bounds both response size and
// connection time against misbehaving remotes.
type PublicFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewPublicFetcher(timeout time.Duration, maxBytes int64) *PublicFetcher {
	return &PublicFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the URL and produces a normalized Result. Malformed
// URLs fail fast; everything past validation is encoded into the
// Result.
func (f *PublicFetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Result{}, fmt.Errorf("url must be absolute http(s), got %q", rawURL)
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "/" || name == "." {
		name = defaultPublicFilename
	}

	result := Result{
		URL:              rawURL,
		OriginalFilename: name,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return failed(result, err), nil
	}
	defer resp.Body.Close()

	if r, handled := mapHTTPStatus(result, resp.StatusCode); handled {
		return r, nil
	}

	body, err := f.readBounded(resp.Body)
	if err != nil {
		return failed(result, err), nil
	}

	result.Status = StatusSuccess
	result.Body = body
	result.SizeBytes = int64(len(body))
	result.ContentType = f.resolveContentType(resp.Header.Get("Content-Type"), body, name)
	result.Key = keyFromPath(name)
	return result, nil
}

func (f *PublicFetcher) readBounded(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: response larger than %d bytes", ErrPayloadTooLarge, f.maxBytes)
	}
	return body, nil
}

// resolveContentType prefers the extension table over what the remote
// server reported, then falls back to sniffing the payload.
func (f *PublicFetcher) resolveContentType(reported string, body []byte, name string) string {
	if ct := ContentTypeForExtension(reported, name); ct != fallbackContentType {
		return ct
	}
	ct, _ := InferType(reported, body, name)
	return ct
}

// mapHTTPStatus encodes non-success statuses into a Failed Result.
func mapHTTPStatus(result Result, status int) (Result, bool) {
	switch {
	case status >= 200 && status < 300:
		return result, false
	case status == http.StatusNotFound:
		return failed(result, fmt.Errorf("not found (status %d)", status)), true
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return failed(result, errors.New("access denied")), true
	default:
		result.Status = StatusFailed
		result.ErrorMessage = fmt.Sprintf("transfer failed (status %d)", status)
		return result, true
	}
}
