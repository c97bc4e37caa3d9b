// Package assets retrieves the text of site files: HTML fragments, page
// templates and JSON data.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Fetcher (interface)
//	    │
//	    ├── EmbeddedLoader    - the default club site compiled into the binary
//	    ├── FilesystemLoader  - a site directory on disk
//	    ├── HTTPLoader        - a site served by a remote origin
//	    └── AssetResolver     - custom loader first, embedded fallback
//
// AssetResolver only falls back when the custom loader reports
// ErrNotFound. Validation, I/O and transport errors are returned as is so a
// broken override is never silently masked by the embedded copy.
//
// # Directory Structure
//
//	{basePath}/
//	├── index.html
//	├── components/
//	│   └── {name}.html        # fragments injected into containers
//	├── templates/
//	│   └── {name}.html        # pages with {{PLACEHOLDER}} tokens
//	└── data/
//	    └── {name}.json        # data files for the binding layer
//
// # Security
//
// Asset paths are validated to be relative, slash-separated and free of
// traversal. FilesystemLoader also resolves symlinks and verifies the
// resolved file stays within basePath.
package assets
