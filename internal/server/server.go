// Package server serves a site directory over plain HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wizardswiffle/clubsite/internal/logging"
)

// Defaults for the listen address and shutdown.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 3000
	DefaultShutdownGrace = 5 * time.Second
)

var ErrInvalidPort = errors.New("invalid port")

// Server serves static files from an fs.FS. Directories are answered with
// their index.html; directories without one are not listed.
type Server struct {
	fsys              fs.FS
	host              string
	port              int
	grace             time.Duration
	readHeaderTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithHost sets the interface to bind.
func WithHost(host string) Option {
	return func(s *Server) { s.host = host }
}

// WithPort sets the TCP port. Zero keeps the default.
func WithPort(port int) Option {
	return func(s *Server) {
		if port != 0 {
			s.port = port
		}
	}
}

// WithShutdownGrace bounds how long in-flight requests may take once
// shutdown starts.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.grace = d
		}
	}
}

// New creates a Server for fsys.
func New(fsys fs.FS, opts ...Option) *Server {
	s := &Server{
		fsys:              fsys,
		host:              DefaultHost,
		port:              DefaultPort,
		grace:             DefaultShutdownGrace,
		readHeaderTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Handler returns the traced, logged file handler.
func (s *Server) Handler() http.Handler {
	files := http.FileServerFS(noListingFS{s.fsys})
	return otelhttp.NewHandler(logRequests(files), "clubsite.static")
}

// ListenAndServe binds Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.port < 1 || s.port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, s.port)
	}
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := logging.FromContext(ctx)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("server running", "addr", ln.Addr().String())

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", s.grace)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// PortFromEnv reads PORT through getenv. Unset or empty means DefaultPort.
func PortFromEnv(getenv func(string) string) (int, error) {
	raw := getenv("PORT")
	if raw == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: PORT=%q", ErrInvalidPort, raw)
	}
	return port, nil
}

// noListingFS hides directories that have no index.html, so the file
// server answers 404 instead of a listing.
type noListingFS struct {
	fs.FS
}

func (n noListingFS) Open(name string) (fs.File, error) {
	f, err := n.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}
	if _, err := fs.Stat(n.FS, path.Join(name, "index.html")); err != nil {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}
