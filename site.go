package clubsite

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/binding"
	"github.com/wizardswiffle/clubsite/internal/dom"
	"github.com/wizardswiffle/clubsite/internal/fragment"
	"github.com/wizardswiffle/clubsite/internal/logging"
	"github.com/wizardswiffle/clubsite/internal/pipeline"
	"github.com/wizardswiffle/clubsite/internal/placeholder"
)

// Site assembles pages from one source of fragments and data. It is safe
// for concurrent use.
type Site struct {
	cfg       siteConfig
	fetcher   Fetcher
	loader    fragment.Loader
	processor *placeholder.Processor
	binder    *binding.Binder
}

// New creates a Site. With no options it reads the embedded default site.
func New(opts ...Option) (*Site, error) {
	cfg := siteConfig{
		strategy:   Concurrent,
		eventsPath: binding.DefaultEventsPath,
		dataRoot:   binding.DefaultRoot,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	fetcher, rebase, err := resolveFetcher(&cfg)
	if err != nil {
		return nil, err
	}

	s := &Site{cfg: cfg, fetcher: fetcher}

	var procOpts []placeholder.Option
	if cfg.leftDelim != "" || cfg.rightDelim != "" {
		procOpts = append(procOpts, placeholder.WithDelims(cfg.leftDelim, cfg.rightDelim))
	}
	s.processor = placeholder.New(procOpts...)

	// Values are substituted before Markdown conversion, so a value may
	// carry Markdown. Links are rebased and sanitizing runs last.
	var transforms []fragment.Transform
	if len(cfg.values) > 0 {
		transforms = append(transforms, pipeline.SubstituteTransform(s.processor, cfg.values))
	}
	if cfg.markdown {
		transforms = append(transforms, pipeline.MarkdownTransform(&pipeline.CommonMarkPreprocessor{}, pipeline.NewGoldmarkConverter()))
	}
	if rebase != nil {
		transforms = append(transforms, pipeline.RebaseTransform(rebase))
	}
	if cfg.sanitize {
		transforms = append(transforms, pipeline.SanitizeTransform())
	}

	loaderOpts := []fragment.Option{
		fragment.WithWorkers(cfg.workers),
		fragment.WithTransform(transforms...),
	}
	if cfg.tracerProvider != nil {
		loaderOpts = append(loaderOpts, fragment.WithTracerProvider(cfg.tracerProvider))
	}
	s.loader, err = fragment.New(cfg.strategy, fetcher, loaderOpts...)
	if err != nil {
		return nil, err
	}

	if !cfg.noBindings {
		binderOpts := []binding.Option{binding.WithPath(cfg.eventsPath), binding.WithRoot(cfg.dataRoot)}
		if cfg.bindings != nil {
			binderOpts = append(binderOpts, binding.WithBindings(cfg.bindings...))
		}
		s.binder = binding.NewBinder(binderOpts...)
	}

	return s, nil
}

// resolveFetcher picks the file source. The returned URL is non-nil when
// fragments come from a remote origin and their links need rebasing.
func resolveFetcher(cfg *siteConfig) (Fetcher, *url.URL, error) {
	if cfg.fetcher != nil {
		return cfg.fetcher, nil, nil
	}
	if cfg.assetPath != "" && cfg.baseURL != "" {
		return nil, nil, ErrConflictingSource
	}

	if cfg.baseURL != "" {
		h, err := assets.NewHTTPLoader(cfg.baseURL, cfg.httpClient)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
		}
		base, err := url.Parse(h.BaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
		}
		return h, base, nil
	}

	r, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return r, nil, nil
}

// Fetcher returns the source the site reads from.
func (s *Site) Fetcher() Fetcher {
	return s.fetcher
}

// FS returns the site's files as a filesystem, when the source has one.
// HTTP sources do not.
func (s *Site) FS() (fs.FS, bool) {
	p, ok := s.fetcher.(assets.FSProvider)
	if !ok {
		return nil, false
	}
	return p.FS(), true
}

// Assemble parses the host page, loads every fragment into it, binds data
// and renders the result. Fragment and data failures are reported in the
// Result; the returned error is reserved for an unusable host page, a
// cancelled context, or an internal failure.
func (s *Site) Assemble(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	page := input.Page
	pagePath := input.PagePath
	if pagePath == "" {
		pagePath = DefaultPage
	}
	if page == "" {
		page, err = s.fetcher.Fetch(ctx, pagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: host page %s: %w", ErrRetrieval, pagePath, err)
		}
	}

	doc, err := dom.ParseString(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}

	manifest := input.Manifest
	if manifest == nil {
		manifest = DefaultManifest()
	}

	res := &Result{}
	res.Outcomes = s.loader.LoadAll(ctx, doc, manifest)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := fragment.Summarize(res.Outcomes)
	logger.Info("components loaded",
		"page", pagePath,
		"fulfilled", summary.Fulfilled,
		"failed", summary.Failed,
	)

	if s.binder != nil {
		res.Bound, res.BindErr = s.binder.Bind(ctx, doc, s.fetcher)
	}
	if len(s.cfg.extraData) > 0 {
		res.Data = binding.LoadAll(ctx, s.fetcher, s.cfg.extraData...)
	}

	res.HTML = []byte(doc.String())
	return res, nil
}

// ProcessTemplate substitutes values into raw.
func (s *Site) ProcessTemplate(raw string, values TemplateContext) string {
	return s.processor.Process(raw, values)
}

// LoadAndProcessTemplate fetches the template at path and substitutes
// values into it. A retrieval failure is logged and returned wrapped in
// ErrRetrieval.
func (s *Site) LoadAndProcessTemplate(ctx context.Context, path string, values TemplateContext) (string, error) {
	return s.processor.LoadAndProcess(ctx, s.fetcher, path, values)
}

// UnresolvedPlaceholders lists placeholders in raw that values does not
// cover.
func (s *Site) UnresolvedPlaceholders(raw string, values TemplateContext) []string {
	return s.processor.Unresolved(raw, values)
}

// WritePage renders the template at path with values and writes it to w.
func (s *Site) WritePage(ctx context.Context, path string, w io.Writer, values TemplateContext) error {
	return s.processor.WritePage(ctx, s.fetcher, path, w, values)
}
