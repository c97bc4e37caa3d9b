package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOrigin(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/site/components/header.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<header>remote</header>"))
	})
	mux.HandleFunc("/site/components/broken.html", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewHTTPLoader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http origin", baseURL: "http://localhost:3000"},
		{name: "https with path", baseURL: "https://example.org/club/"},
		{name: "relative url", baseURL: "/site", wantErr: true},
		{name: "file scheme", baseURL: "file:///tmp/site", wantErr: true},
		{name: "garbage", baseURL: "://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewHTTPLoader(tt.baseURL, nil)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBaseURL) {
					t.Errorf("NewHTTPLoader(%q) error = %v, want ErrInvalidBaseURL", tt.baseURL, err)
				}
				return
			}
			if err != nil {
				t.Errorf("NewHTTPLoader(%q) unexpected error: %v", tt.baseURL, err)
			}
		})
	}
}

func TestHTTPLoader_Fetch(t *testing.T) {
	t.Parallel()

	srv := newOrigin(t)
	loader, err := NewHTTPLoader(srv.URL+"/site", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPLoader() error = %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "ok response", path: "components/header.html", want: "<header>remote</header>"},
		{name: "404 maps to not found", path: "components/hero.html", wantErr: ErrNotFound},
		{name: "500 maps to status error", path: "components/broken.html", wantErr: ErrHTTPStatus},
		{name: "invalid path", path: "../etc/passwd", wantErr: ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.Fetch(context.Background(), tt.path)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Fetch(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Fetch(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestHTTPLoader_FetchKeepsQuery(t *testing.T) {
	t.Parallel()

	type hit struct{ path, query string }
	hits := make(chan hit, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- hit{path: r.URL.Path, query: r.URL.RawQuery}
		_, _ = w.Write([]byte("<section>hero</section>"))
	}))
	t.Cleanup(srv.Close)

	loader, err := NewHTTPLoader(srv.URL+"/site", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPLoader() error = %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantPath  string
		wantQuery string
		wantErr   error
	}{
		{name: "query", path: "components/hero.html?v=2", wantPath: "/site/components/hero.html", wantQuery: "v=2"},
		{name: "fragment dropped", path: "components/hero.html#top", wantPath: "/site/components/hero.html"},
		{name: "plain", path: "components/hero.html", wantPath: "/site/components/hero.html"},
		{name: "scheme", path: "http:evil.html", wantErr: ErrInvalidAssetPath},
		{name: "encoded traversal", path: "%2e%2e/secret.html", wantErr: ErrInvalidAssetPath},
	}

	// Sequential: the handler reports through a shared channel.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.Fetch(context.Background(), tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Fetch(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				select {
				case h := <-hits:
					t.Errorf("Fetch(%q) reached the origin at %s", tt.path, h.path)
				default:
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch(%q) unexpected error: %v", tt.path, err)
			}
			if got != "<section>hero</section>" {
				t.Errorf("Fetch(%q) = %q", tt.path, got)
			}
			h := <-hits
			if h.path != tt.wantPath || h.query != tt.wantQuery {
				t.Errorf("origin saw path %q query %q, want %q %q", h.path, h.query, tt.wantPath, tt.wantQuery)
			}
		})
	}
}

func TestHTTPLoader_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	loader, err := NewHTTPLoader(url, nil)
	if err != nil {
		t.Fatalf("NewHTTPLoader() error = %v", err)
	}

	_, err = loader.Fetch(context.Background(), "components/header.html")
	if !errors.Is(err, ErrAssetRead) {
		t.Errorf("Fetch() error = %v, want ErrAssetRead", err)
	}
}
