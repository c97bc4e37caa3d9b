package assets

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultHTTPTimeout applies when NewHTTPLoader is given a nil client.
// That client's transport is traced with otelhttp.
const DefaultHTTPTimeout = 30 * time.Second

// HTTPLoader fetches assets relative to a remote origin, the way a browser
// resolves fragment paths against the page URL.
// Implements Fetcher interface.
type HTTPLoader struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPLoader creates an HTTPLoader for baseURL.
// Returns ErrInvalidBaseURL unless baseURL is an absolute http or https URL.
func NewHTTPLoader(baseURL string, client *http.Client) (*HTTPLoader, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	// Treat the base as a directory so relative paths resolve beneath it.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	if client == nil {
		client = &http.Client{
			Timeout:   DefaultHTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &HTTPLoader{base: u, client: client}, nil
}

// Fetch issues a GET for base + p. A 404 maps to ErrNotFound, any other
// non-2xx status to ErrHTTPStatus.
func (h *HTTPLoader) Fetch(ctx context.Context, p string) (string, error) {
	cleaned, err := ValidateAssetPath(p)
	if err != nil {
		return "", err
	}

	// Parsed rather than set as Path so a query or fragment survives.
	ref, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidAssetPath, p, err)
	}
	if ref.Scheme != "" || ref.Host != "" || ref.User != nil || !fs.ValidPath(ref.Path) {
		return "", fmt.Errorf("%w: %q must stay under the origin", ErrInvalidAssetPath, p)
	}
	target := h.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %q (HTTP 404)", ErrNotFound, p)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %q: %s", ErrHTTPStatus, p, resp.Status)
	}

	return readLimited(resp.Body)
}

// BaseURL returns the origin fragments are resolved against.
func (h *HTTPLoader) BaseURL() string {
	return h.base.String()
}

// Compile-time interface check.
var _ Fetcher = (*HTTPLoader)(nil)
