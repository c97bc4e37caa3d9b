package placeholder

import (
	"context"
	"fmt"
	"io"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/logging"
)

// LoadAndProcess retrieves the template at path and substitutes ctx into
// it. Unlike batch fragment loading, a retrieval failure is returned to the
// caller wrapped in assets.ErrRetrieval, after being logged.
func (p *Processor) LoadAndProcess(ctx context.Context, fetcher assets.Fetcher, path string, values Context) (string, error) {
	raw, err := fetcher.Fetch(ctx, path)
	if err != nil {
		logging.FromContext(ctx).Error("error processing template", "path", path, "error", err)
		return "", fmt.Errorf("%w: template %s: %w", assets.ErrRetrieval, path, err)
	}
	return p.Process(raw, values), nil
}

// WritePage renders the template at templatePath with values and writes the
// result to w.
func (p *Processor) WritePage(ctx context.Context, fetcher assets.Fetcher, templatePath string, w io.Writer, values Context) error {
	out, err := p.LoadAndProcess(ctx, fetcher, templatePath, values)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("writing page from template",
		"template", templatePath,
		"unresolved", p.Unresolved(out, nil),
	)

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

// LoadAndProcess uses the default delimiters.
func LoadAndProcess(ctx context.Context, fetcher assets.Fetcher, path string, values Context) (string, error) {
	return defaultProcessor.LoadAndProcess(ctx, fetcher, path, values)
}

// WritePage uses the default delimiters.
func WritePage(ctx context.Context, fetcher assets.Fetcher, templatePath string, w io.Writer, values Context) error {
	return defaultProcessor.WritePage(ctx, fetcher, templatePath, w, values)
}
