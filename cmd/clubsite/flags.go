package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags select and tune the site source. Zero values leave the
// config file or environment in charge.
type siteFlags struct {
	root            string
	baseURL         string
	strategy        string
	fragmentWorkers int
	markdown        bool
	sanitize        bool
	noBind          bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	site   siteFlags
	host   string
	port   int
	dir    string
}

// assembleFlags holds all flags for the assemble command.
type assembleFlags struct {
	common  commonFlags
	site    siteFlags
	output  string
	workers int
	noCopy  bool
	strict  bool
}

// templateFlags holds all flags for the template command.
type templateFlags struct {
	common commonFlags
	site   siteFlags
	output string
	set    []string
	strict bool
}

// probeFlags holds all flags for the probe command.
type probeFlags struct {
	common  commonFlags
	site    siteFlags
	timeout time.Duration
	json    bool
}

// configFlags holds all flags for the config command.
type configFlags struct {
	common commonFlags
	site   siteFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
}

// addSiteFlags adds site source flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.root, "root", "", "site directory (default: embedded site)")
	fs.StringVar(&f.baseURL, "base-url", "", "fetch the site from this http(s) origin")
	fs.StringVar(&f.strategy, "strategy", "", "fragment loading: concurrent, sequential")
	fs.IntVar(&f.fragmentWorkers, "fragment-workers", 0, "concurrent fragment fetches (0 = one per fragment)")
	fs.BoolVar(&f.markdown, "markdown", false, "convert .md fragments to HTML")
	fs.BoolVar(&f.sanitize, "sanitize", false, "sanitize fragment HTML")
	fs.BoolVar(&f.noBind, "no-bind", false, "skip event data binding")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, stderr)
	fs.StringVar(&f.host, "host", "", "interface to bind (default: 0.0.0.0)")
	fs.IntVarP(&f.port, "port", "p", 0, "port (default: $PORT or 3000)")
	fs.StringVarP(&f.dir, "dir", "d", "", "serve this directory, e.g. assemble output")
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseAssembleFlags parses assemble command flags and returns the pages.
func parseAssembleFlags(args []string, stderr io.Writer) (*assembleFlags, []string, error) {
	f := &assembleFlags{}
	fs := newFlagSet("assemble", printAssembleUsage, stderr)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: dist)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "pages assembled at once (0 = auto)")
	fs.BoolVar(&f.noCopy, "no-copy", false, "write pages only, do not copy other site files")
	fs.BoolVar(&f.strict, "strict", false, "fail when any fragment fails to load")
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseTemplateFlags parses template command flags.
func parseTemplateFlags(args []string, stderr io.Writer) (*templateFlags, []string, error) {
	f := &templateFlags{}
	fs := newFlagSet("template", printTemplateUsage, stderr)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringArrayVarP(&f.set, "set", "s", nil, "placeholder value KEY=VALUE (repeatable)")
	fs.BoolVar(&f.strict, "strict", false, "fail when placeholders remain unresolved")
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseProbeFlags parses probe command flags.
func parseProbeFlags(args []string, stderr io.Writer) (*probeFlags, []string, error) {
	f := &probeFlags{}
	fs := newFlagSet("probe", printProbeUsage, stderr)
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "page load and settle timeout (default: 30s)")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, error) {
	f := &configFlags{}
	fs := newFlagSet("config", printConfigUsage, stderr)
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
