package assets

import (
	"context"
	"errors"
	"io/fs"
)

// AssetResolver combines a custom loader with the embedded site.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   Fetcher // nil if no custom source configured
	embedded Fetcher
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	if customBasePath == "" {
		return NewResolver(nil), nil
	}

	fsLoader, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	return NewResolver(fsLoader), nil
}

// NewResolver wraps any custom Fetcher, such as an HTTPLoader, with the
// embedded fallback. A nil custom fetcher means embedded only.
func NewResolver(custom Fetcher) *AssetResolver {
	return &AssetResolver{
		custom:   custom,
		embedded: NewEmbeddedLoader(),
	}
}

// Fetch loads an asset, trying the custom loader first if available.
func (r *AssetResolver) Fetch(ctx context.Context, p string) (string, error) {
	if r.custom == nil {
		return r.embedded.Fetch(ctx, p)
	}

	content, err := r.custom.Fetch(ctx, p)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	return r.embedded.Fetch(ctx, p)
}

// FS returns the custom tree when it is browsable, otherwise the embedded
// site. Files missing from a custom tree are not merged in.
func (r *AssetResolver) FS() fs.FS {
	if p, ok := r.custom.(FSProvider); ok {
		return p.FS()
	}
	if p, ok := r.embedded.(FSProvider); ok {
		return p.FS()
	}
	return nil
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface checks.
var (
	_ Fetcher    = (*AssetResolver)(nil)
	_ FSProvider = (*AssetResolver)(nil)
)
