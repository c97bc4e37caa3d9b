package assets

import (
	"context"
	"embed"
	"io/fs"
)

//go:embed all:site
var site embed.FS

// EmbeddedLoader loads assets from the club site compiled into the binary.
// Implements Fetcher interface.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	sub, err := fs.Sub(site, "site")
	if err != nil {
		// "site" is a literal valid path; fs.Sub cannot fail for it.
		panic(err)
	}
	return &EmbeddedLoader{fsys: sub}
}

// Fetch loads an asset from the embedded site.
func (e *EmbeddedLoader) Fetch(ctx context.Context, p string) (string, error) {
	return NewFSLoader(e.fsys).Fetch(ctx, p)
}

// FS exposes the embedded site rooted at its top directory.
func (e *EmbeddedLoader) FS() fs.FS {
	return e.fsys
}

// Compile-time interface checks.
var (
	_ Fetcher    = (*EmbeddedLoader)(nil)
	_ FSProvider = (*EmbeddedLoader)(nil)
)
