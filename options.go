package clubsite

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/wizardswiffle/clubsite/internal/logging"
)

// Option configures a Site.
type Option func(*siteConfig)

type siteConfig struct {
	fetcher        Fetcher
	assetPath      string
	baseURL        string
	httpClient     *http.Client
	strategy       Strategy
	workers        int
	values         map[string]TemplateContext
	leftDelim      string
	rightDelim     string
	markdown       bool
	sanitize       bool
	bindings       []Binding
	noBindings     bool
	eventsPath     string
	dataRoot       string
	extraData      []string
	tracerProvider trace.TracerProvider
}

// WithFetcher reads site files through f. It takes precedence over
// WithAssetPath and WithBaseURL.
func WithFetcher(f Fetcher) Option {
	return func(c *siteConfig) { c.fetcher = f }
}

// WithAssetPath reads site files from dir, falling back to the embedded
// site for files dir does not have.
func WithAssetPath(dir string) Option {
	return func(c *siteConfig) { c.assetPath = dir }
}

// WithBaseURL reads site files from an HTTP origin. Relative links in the
// loaded fragments are resolved against it.
func WithBaseURL(u string) Option {
	return func(c *siteConfig) { c.baseURL = u }
}

// WithHTTPClient sets the client used with WithBaseURL.
func WithHTTPClient(client *http.Client) Option {
	return func(c *siteConfig) { c.httpClient = client }
}

// WithStrategy selects concurrent (default) or sequential loading.
func WithStrategy(s Strategy) Option {
	return func(c *siteConfig) { c.strategy = s }
}

// WithWorkers bounds concurrent retrievals. Zero means one per fragment.
func WithWorkers(n int) Option {
	return func(c *siteConfig) { c.workers = n }
}

// WithValues attaches template values to containers. A fragment loaded
// into a listed container has its placeholders substituted; other
// fragments are injected verbatim.
func WithValues(values map[string]TemplateContext) Option {
	return func(c *siteConfig) { c.values = values }
}

// WithDelims changes the placeholder delimiters.
func WithDelims(left, right string) Option {
	return func(c *siteConfig) {
		c.leftDelim = left
		c.rightDelim = right
	}
}

// WithMarkdown converts .md fragments to HTML before injection.
func WithMarkdown(enabled bool) Option {
	return func(c *siteConfig) { c.markdown = enabled }
}

// WithSanitize strips scripts and event handlers from every fragment.
func WithSanitize(enabled bool) Option {
	return func(c *siteConfig) { c.sanitize = enabled }
}

// WithBindings replaces the default next-game bindings.
func WithBindings(b ...Binding) Option {
	return func(c *siteConfig) {
		c.bindings = b
		c.noBindings = false
	}
}

// WithoutBindings skips data binding.
func WithoutBindings() Option {
	return func(c *siteConfig) { c.noBindings = true }
}

// WithEventsData sets the events file and the object inside it the
// bindings read from.
func WithEventsData(path, root string) Option {
	return func(c *siteConfig) {
		c.eventsPath = path
		c.dataRoot = root
	}
}

// WithExtraData lists data files loaded and validated after binding.
func WithExtraData(paths ...string) Option {
	return func(c *siteConfig) { c.extraData = paths }
}

// WithTracerProvider sets the provider for fragment load spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *siteConfig) { c.tracerProvider = tp }
}

// WithLogger returns a copy of ctx whose diagnostics go to logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.WithLogger(ctx, logger)
}
