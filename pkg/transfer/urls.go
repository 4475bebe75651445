package transfer

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeEndpoint ensures the configured endpoint carries a scheme,
// defaulting to https.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return ""
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return "https://" + endpoint
	}
	return endpoint
}

// ObjectURL synthesizes the path-style access URL for a key. It is
// deterministic: identical endpoint, bucket, and key always produce the
// same URL.
func ObjectURL(endpoint, bucket string, key StorageKey) string {
	return fmt.Sprintf("%s/%s/%s", NormalizeEndpoint(endpoint), bucket, key.String())
}

// ParseObjectURL resolves a bucket and object key from a URL rooted at
// the configured endpoint. Two forms are accepted:
//
//	path style:         https://endpoint/<bucket>/<key>
//	virtual-host style: https://<bucket>.endpoint/<key>
//
// URLs pointing anywhere else fail with ErrUntrustedSource.
func ParseObjectURL(endpoint, raw string) (bucket, key string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("invalid url %q: %w", raw, err)
	}

	endpointURL, err := url.Parse(NormalizeEndpoint(endpoint))
	if err != nil || endpointURL.Host == "" {
		return "", "", fmt.Errorf("invalid endpoint %q", endpoint)
	}

	endpointHost := strings.ToLower(endpointURL.Host)
	urlHost := strings.ToLower(parsed.Host)

	switch {
	case urlHost == endpointHost:
		p := strings.TrimPrefix(parsed.Path, "/")
		bucket, key, _ = strings.Cut(p, "/")
		if bucket == "" {
			return "", "", fmt.Errorf("no bucket in url %q", raw)
		}
	case strings.HasSuffix(urlHost, "."+endpointHost):
		bucket = strings.TrimSuffix(urlHost, "."+endpointHost)
		key = strings.TrimPrefix(parsed.Path, "/")
	default:
		return "", "", fmt.Errorf("%w: host %q does not match %q", ErrUntrustedSource, parsed.Host, endpointHost)
	}

	if key == "" {
		return "", "", fmt.Errorf("no object key in url %q", raw)
	}
	return bucket, key, nil
}
