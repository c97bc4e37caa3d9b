package clubsite

import (
	"errors"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/fragment"
)

// Sentinel errors for library operations.
var (
	ErrInvalidPage       = errors.New("host page cannot be parsed")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrInvalidBaseURL    = errors.New("invalid base URL")
	ErrConflictingSource = errors.New("asset path and base URL are mutually exclusive")

	// ErrRetrieval marks a fragment, template or data file that could not
	// be fetched.
	ErrRetrieval = assets.ErrRetrieval

	// ErrContainerMissing marks a fragment whose container is not in the
	// host page.
	ErrContainerMissing = fragment.ErrContainerMissing

	// ErrTransform marks a fragment rejected by a transform such as
	// Markdown conversion.
	ErrTransform = fragment.ErrTransform
)
