package assets

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ValidateAssetPath checks that p is a safe relative path and returns its
// cleaned form. A leading "./" is accepted and removed.
// Returns ErrInvalidAssetPath if the path is empty, absolute, escapes its
// root, or contains backslashes or NUL bytes.
func ValidateAssetPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidAssetPath)
	}
	if strings.ContainsAny(p, "\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetPath, p)
	}

	cleaned := path.Clean(p)
	if cleaned == "." || !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetPath, p)
	}
	return cleaned, nil
}
