package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"

	"github.com/wizardswiffle/clubsite/internal/browser"
	"github.com/wizardswiffle/clubsite/internal/hints"
)

// ErrProbeFailed is returned when a probed page has empty containers.
var ErrProbeFailed = errors.New("containers not populated")

// runProbe loads a page in headless Chrome and reports its containers.
func runProbe(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseProbeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: probe takes at most one URL", ErrInvalidSetting)
	}

	ctx, cmd, err := newSite(ctx, env, flags.common, flags.site)
	if err != nil {
		return err
	}

	url := defaultProbeURL(cmd.cfg.Server.Port, cmd.cfg.Site.Page)
	if len(rest) == 1 {
		url = rest[0]
	}

	prober := env.NewProber(flags.timeout)
	defer func() { _ = prober.Close() }()

	report, err := prober.Probe(ctx, url, containerIDs(cmd.manifest), bindingClasses(cmd.cfg))
	if err != nil {
		switch {
		case errors.Is(err, browser.ErrBrowserConnect):
			return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
		case errors.Is(err, browser.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("%w%s", err, hints.ForTimeout())
		}
		return err
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if !flags.common.quiet || !report.OK() {
		printProbeReport(env.Stdout, report)
	}

	if !report.OK() {
		return fmt.Errorf("%w: %v", ErrProbeFailed, report.Empty())
	}
	return nil
}

// defaultProbeURL targets the local serve command.
func defaultProbeURL(port int, page string) string {
	return "http://" + net.JoinHostPort("localhost", strconv.Itoa(port)) + "/" + page
}

// printProbeReport outputs a human-readable report.
func printProbeReport(w io.Writer, r *browser.Report) {
	fmt.Fprintf(w, "%s", r.URL)
	if r.Title != "" {
		fmt.Fprintf(w, " (%s)", r.Title)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Containers")
	for _, c := range r.Containers {
		switch {
		case !c.Present:
			fmt.Fprintf(w, "  [ERROR] %s: missing from page\n", c.ID)
		case !c.Populated:
			fmt.Fprintf(w, "  [ERROR] %s: empty\n", c.ID)
		default:
			fmt.Fprintf(w, "  [OK] %s: %d bytes\n", c.ID, c.Length)
		}
	}

	if len(r.Bindings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Bindings")
		classes := make([]string, 0, len(r.Bindings))
		for c := range r.Bindings {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			text := r.Bindings[c]
			if text == "" || text == "undefined" {
				fmt.Fprintf(w, "  [WARN] .%s: %q\n", c, text)
				continue
			}
			fmt.Fprintf(w, "  [OK] .%s: %s\n", c, text)
		}
	}
	fmt.Fprintln(w)

	if r.OK() {
		fmt.Fprintln(w, "Status: All containers populated")
	} else {
		fmt.Fprintf(w, "Status: %d container(s) empty\n", len(r.Empty()))
	}
}
