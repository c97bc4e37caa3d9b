package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrNotFound indicates the requested asset does not exist.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidAssetPath indicates the asset path is empty, absolute, or
	// contains traversal sequences, backslashes, or NUL bytes.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrInvalidBaseURL indicates the configured origin is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrAssetRead indicates an I/O or transport error occurred while reading an asset.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrHTTPStatus indicates the origin answered with a non-success status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrAssetTooLarge indicates the asset exceeds MaxAssetSize.
	ErrAssetTooLarge = errors.New("asset exceeds maximum size")

	// ErrRetrieval marks a fetch that failed for any reason. Consumers wrap
	// the underlying loader error with it, so callers can test for a
	// retrieval failure without enumerating loader errors.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
