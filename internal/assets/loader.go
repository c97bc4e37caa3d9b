package assets

import (
	"context"
	"io/fs"
)

// MaxAssetSize bounds a single retrieved asset (default 8MB).
var MaxAssetSize int64 = 8 << 20

// Fetcher defines the contract for retrieving the text of a site file.
// Implementations may read from embedded files, disk, HTTP, etc.
type Fetcher interface {
	// Fetch returns the content at the slash-separated relative path.
	// Returns ErrNotFound if the asset doesn't exist.
	// Returns ErrInvalidAssetPath if the path is not a valid relative path.
	Fetch(ctx context.Context, path string) (string, error)
}

// FSProvider is implemented by loaders backed by a browsable filesystem.
// The static server uses it to serve the same tree the loaders read.
type FSProvider interface {
	FS() fs.FS
}
