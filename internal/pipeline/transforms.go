package pipeline

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/wizardswiffle/clubsite/internal/fragment"
	"github.com/wizardswiffle/clubsite/internal/placeholder"
)

// IsMarkdown reports whether a fragment path names a Markdown file.
func IsMarkdown(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// MarkdownTransform converts fragments whose path ends in .md or .markdown
// to HTML. Other fragments pass through.
func MarkdownTransform(pre MarkdownPreprocessor, conv HTMLConverter) fragment.Transform {
	return func(ctx context.Context, req fragment.Request, content string) (string, error) {
		if !IsMarkdown(req.SourcePath) {
			return content, nil
		}
		if pre != nil {
			content = pre.PreprocessMarkdown(ctx, content)
		}
		out, err := conv.ToHTML(ctx, content)
		if err != nil {
			return "", err
		}
		return ConvertMarkPlaceholders(out), nil
	}
}

// SubstituteTransform runs placeholder substitution on fragments whose
// container has an entry in values. Fragments without one are injected
// verbatim.
func SubstituteTransform(proc *placeholder.Processor, values map[string]placeholder.Context) fragment.Transform {
	return func(_ context.Context, req fragment.Request, content string) (string, error) {
		ctx, ok := values[req.ContainerID]
		if !ok {
			return content, nil
		}
		return proc.Process(content, ctx), nil
	}
}

// RebaseTransform resolves relative links in every fragment against base.
func RebaseTransform(base *url.URL) fragment.Transform {
	return func(_ context.Context, _ fragment.Request, content string) (string, error) {
		return RebaseRelativePaths(content, base)
	}
}

// SanitizeTransform runs every fragment through Sanitize.
func SanitizeTransform() fragment.Transform {
	return func(_ context.Context, _ fragment.Request, content string) (string, error) {
		return Sanitize(content), nil
	}
}
