package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/wizardswiffle/clubsite/internal/browser"
	"github.com/wizardswiffle/clubsite/internal/config"
)

// fixedNow is Saturday, June 14 2025.
var fixedNow = time.Date(2025, time.June, 14, 9, 0, 0, 0, time.UTC)

// fakeProber returns a canned report or error.
type fakeProber struct {
	mu      sync.Mutex
	report  *browser.Report
	err     error
	url     string
	ids     []string
	classes []string
	closed  bool
}

func (f *fakeProber) Probe(_ context.Context, url string, ids, classes []string) (*browser.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url, f.ids, f.classes = url, ids, classes
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeProber) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// testEnv returns an Environment reading vars instead of the process
// environment, plus its output buffers.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	getenv := func(k string) string { return vars[k] }
	environ := func() []string {
		out := make([]string, 0, len(vars))
		for k, v := range vars {
			out = append(out, k+"="+v)
		}
		sort.Strings(out)
		return out
	}
	return &Environment{
		Now:     func() time.Time { return fixedNow },
		Stdout:  &stdout,
		Stderr:  &stderr,
		Getenv:  getenv,
		Environ: environ,
		Config:  config.DefaultConfig(),
		Listen:  net.Listen,
		NewProber: func(time.Duration) browser.Prober {
			return &fakeProber{report: &browser.Report{}}
		},
	}, &stdout, &stderr
}

// writeSite creates a site directory from relative paths to contents.
func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
