package main

import (
	"errors"
	"os"

	"github.com/wizardswiffle/clubsite"
	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/browser"
	"github.com/wizardswiffle/clubsite/internal/config"
	"github.com/wizardswiffle/clubsite/internal/dateutil"
	"github.com/wizardswiffle/clubsite/internal/server"
)

// Exit codes for the clubsite CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error, failed probe
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Missing files, unreachable origin, unwritable output
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, browser.ErrBrowserConnect) ||
		errors.Is(err, browser.ErrPageCreate) ||
		errors.Is(err, browser.ErrPageLoad) ||
		errors.Is(err, browser.ErrEvaluate) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrDuplicateContainer) ||
		errors.Is(err, config.ErrMissingField) ||
		errors.Is(err, config.ErrInvalidStrategy) ||
		errors.Is(err, config.ErrInvalidPort) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, config.ErrConflictingSource) ||
		errors.Is(err, server.ErrInvalidPort) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, clubsite.ErrInvalidPage) ||
		errors.Is(err, clubsite.ErrInvalidAssetPath) ||
		errors.Is(err, clubsite.ErrInvalidBaseURL) ||
		errors.Is(err, clubsite.ErrConflictingSource) ||
		errors.Is(err, assets.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidSetting) ||
		errors.Is(err, ErrNoFilesystem) ||
		errors.Is(err, ErrUnresolved) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, clubsite.ErrRetrieval) ||
		errors.Is(err, ErrWritePage) ||
		errors.Is(err, ErrCopyAssets) {
		return ExitIO
	}

	return ExitGeneral
}
