package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// FSLoader loads assets from any fs.FS, such as fstest.MapFS in tests or a
// sub-tree of an embed.FS.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates an FSLoader over fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Fetch reads the file at p.
func (l *FSLoader) Fetch(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleaned, err := ValidateAssetPath(p)
	if err != nil {
		return "", err
	}

	f, err := l.fsys.Open(cleaned)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, p)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %q is a directory", ErrNotFound, p)
	}

	return readLimited(f)
}

// FS returns the underlying filesystem.
func (l *FSLoader) FS() fs.FS {
	return l.fsys
}

// readLimited reads r fully, failing once MaxAssetSize is exceeded.
func readLimited(r io.Reader) (string, error) {
	content, err := io.ReadAll(io.LimitReader(r, MaxAssetSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if int64(len(content)) > MaxAssetSize {
		return "", fmt.Errorf("%w: max %d bytes", ErrAssetTooLarge, MaxAssetSize)
	}
	return string(content), nil
}

// Compile-time interface checks.
var (
	_ Fetcher    = (*FSLoader)(nil)
	_ FSProvider = (*FSLoader)(nil)
)
