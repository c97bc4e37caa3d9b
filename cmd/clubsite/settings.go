package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/wizardswiffle/clubsite"
	"github.com/wizardswiffle/clubsite/internal/config"
	"github.com/wizardswiffle/clubsite/internal/dateutil"
	"github.com/wizardswiffle/clubsite/internal/fileutil"
	"github.com/wizardswiffle/clubsite/internal/hints"
	"github.com/wizardswiffle/clubsite/internal/logging"
)

// ErrInvalidSetting marks a flag or environment value the config layer
// cannot express.
var ErrInvalidSetting = errors.New("invalid setting")

// resolveConfig builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
func resolveConfig(env *Environment, common commonFlags, site siteFlags) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	switch {
	case name != "":
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	case env.Config != nil:
		c := *env.Config
		cfg = &c
	default:
		cfg = config.DefaultConfig()
	}

	if err := applyEnvConfig(envCfg, cfg); err != nil {
		return nil, err
	}
	if err := mergeSiteFlags(site, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeSiteFlags applies site flags over cfg.
func mergeSiteFlags(f siteFlags, cfg *config.Config) error {
	if f.root != "" && f.baseURL != "" {
		return fmt.Errorf("%w: --root and --base-url are mutually exclusive", ErrInvalidSetting)
	}
	if f.root != "" {
		if fileutil.IsURL(f.root) {
			return fmt.Errorf("%w: --root %q is a URL, use --base-url", ErrInvalidSetting, f.root)
		}
		cfg.Site.Root = f.root
		cfg.Site.BaseURL = ""
	}
	if f.baseURL != "" {
		cfg.Site.BaseURL = f.baseURL
		cfg.Site.Root = ""
	}
	if f.strategy != "" {
		cfg.Loader.Strategy = f.strategy
	}
	if f.fragmentWorkers != 0 {
		cfg.Loader.Workers = f.fragmentWorkers
	}
	if f.markdown {
		cfg.Loader.Markdown = true
	}
	if f.sanitize {
		cfg.Loader.Sanitize = true
	}
	if f.noBind {
		cfg.Data.Disabled = true
	}
	return nil
}

// siteOptions translates cfg into library options and the fragment
// manifest. A nil manifest selects the default one. Fragment values of the
// form auto[:FORMAT] are resolved against now.
func siteOptions(cfg *config.Config, now func() time.Time) ([]clubsite.Option, []clubsite.FragmentRequest, error) {
	strategy, err := clubsite.ParseStrategy(cfg.Loader.Strategy)
	if err != nil {
		return nil, nil, err
	}

	opts := []clubsite.Option{
		clubsite.WithStrategy(strategy),
		clubsite.WithWorkers(cfg.Loader.Workers),
		clubsite.WithMarkdown(cfg.Loader.Markdown),
		clubsite.WithSanitize(cfg.Loader.Sanitize),
	}

	switch {
	case cfg.Site.BaseURL != "":
		opts = append(opts, clubsite.WithBaseURL(cfg.Site.BaseURL))
	case cfg.Site.Root != "":
		opts = append(opts, clubsite.WithAssetPath(cfg.Site.Root))
	}

	var manifest []clubsite.FragmentRequest
	values := make(map[string]clubsite.TemplateContext)
	for _, f := range cfg.Fragments {
		manifest = append(manifest, clubsite.FragmentRequest{ContainerID: f.ID, SourcePath: f.Path})
		if len(f.Values) == 0 {
			continue
		}
		resolved := maps.Clone(f.Values)
		if err := dateutil.ResolveAll(resolved, now()); err != nil {
			return nil, nil, fmt.Errorf("fragment %s: %w", f.ID, err)
		}
		tc := make(clubsite.TemplateContext, len(resolved))
		for k, v := range resolved {
			tc[k] = v
		}
		values[f.ID] = tc
	}
	if len(values) > 0 {
		opts = append(opts, clubsite.WithValues(values))
	}

	if cfg.Data.Disabled {
		opts = append(opts, clubsite.WithoutBindings())
	} else {
		opts = append(opts, clubsite.WithEventsData(cfg.Data.Events, cfg.Data.Root))
		if len(cfg.Data.Bindings) > 0 {
			bindings := make([]clubsite.Binding, 0, len(cfg.Data.Bindings))
			for _, b := range cfg.Data.Bindings {
				bindings = append(bindings, clubsite.Binding{Class: b.Class, Fields: b.Fields, Separator: b.Separator})
			}
			opts = append(opts, clubsite.WithBindings(bindings...))
		}
	}
	if len(cfg.Data.Extra) > 0 {
		opts = append(opts, clubsite.WithExtraData(cfg.Data.Extra...))
	}

	return opts, manifest, nil
}

// bindingClasses lists the classes data binding writes to.
func bindingClasses(cfg *config.Config) []string {
	if cfg.Data.Disabled {
		return nil
	}
	var classes []string
	if len(cfg.Data.Bindings) == 0 {
		for _, b := range clubsite.DefaultBindings() {
			classes = append(classes, b.Class)
		}
		return classes
	}
	for _, b := range cfg.Data.Bindings {
		classes = append(classes, b.Class)
	}
	return classes
}

// containerIDs lists the manifest's containers, or the default ones.
func containerIDs(manifest []clubsite.FragmentRequest) []string {
	if manifest == nil {
		manifest = clubsite.DefaultManifest()
	}
	ids := make([]string, 0, len(manifest))
	for _, r := range manifest {
		ids = append(ids, r.ContainerID)
	}
	return ids
}

// newSite resolves configuration and builds the site, returning a context
// that carries the command's logger.
func newSite(ctx context.Context, env *Environment, common commonFlags, site siteFlags) (context.Context, *command, error) {
	cfg, err := resolveConfig(env, common, site)
	if err != nil {
		return ctx, nil, err
	}

	ctx = logging.WithLogger(ctx, logging.New(env.Stderr, common.quiet, common.verbose))

	opts, manifest, err := siteOptions(cfg, env.Now)
	if err != nil {
		return ctx, nil, err
	}
	s, err := clubsite.New(opts...)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, &command{cfg: cfg, site: s, manifest: manifest}, nil
}

// command is the resolved state every site-backed command works from.
type command struct {
	cfg      *config.Config
	site     *clubsite.Site
	manifest []clubsite.FragmentRequest
}
