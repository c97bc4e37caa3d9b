package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/wizardswiffle/clubsite/internal/fileutil"
	"github.com/wizardswiffle/clubsite/internal/hints"
	"github.com/wizardswiffle/clubsite/internal/server"
)

// ErrNoFilesystem is returned when serve is pointed at an HTTP origin.
var ErrNoFilesystem = errors.New("site source has no local files to serve")

// runServe serves the site (or --dir) until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrInvalidSetting, rest[0])
	}

	ctx, cmd, err := newSite(ctx, env, flags.common, flags.site)
	if err != nil {
		return err
	}

	fsys, ok := cmd.site.FS()
	if flags.dir != "" {
		if !fileutil.DirExists(flags.dir) {
			return fmt.Errorf("serve directory %s: %w", flags.dir, os.ErrNotExist)
		}
		fsys, ok = os.DirFS(flags.dir), true
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoFilesystem, cmd.cfg.Site.BaseURL)
	}

	host := cmd.cfg.Server.Host
	if flags.host != "" {
		host = flags.host
	}
	port := cmd.cfg.Server.Port
	if flags.port != 0 {
		port = flags.port
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %d", server.ErrInvalidPort, port)
	}

	srv := server.New(fsys, server.WithHost(host), server.WithPort(port))
	ln, err := env.Listen("tcp", srv.Addr())
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("listen %s: %w%s", srv.Addr(), err, hints.ForPortInUse())
		}
		return fmt.Errorf("listen %s: %w", srv.Addr(), err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving on http://%s\n", displayAddr(host, ln.Addr().String()))
	}
	return srv.Serve(ctx, ln)
}

// displayAddr shows a wildcard bind as localhost.
func displayAddr(host, bound string) string {
	if host != "0.0.0.0" && host != "" && host != "::" {
		return bound
	}
	_, port, err := net.SplitHostPort(bound)
	if err != nil {
		return bound
	}
	return "localhost:" + port
}
