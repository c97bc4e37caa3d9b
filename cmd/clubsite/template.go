package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wizardswiffle/clubsite"
	"github.com/wizardswiffle/clubsite/internal/dateutil"
	"github.com/wizardswiffle/clubsite/internal/fileutil"
	"github.com/wizardswiffle/clubsite/internal/hints"
)

// ErrUnresolved is returned under --strict when placeholders remain.
var ErrUnresolved = errors.New("unresolved placeholders")

// runTemplate renders one template with --set values to stdout or a file.
func runTemplate(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseTemplateFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: template expects exactly one path, got %d", ErrInvalidSetting, len(rest))
	}

	values, err := parseSetValues(flags.set)
	if err != nil {
		return err
	}
	if err := dateutil.ResolveAll(values, env.Now()); err != nil {
		return err
	}
	tc := make(clubsite.TemplateContext, len(values))
	for k, v := range values {
		tc[k] = v
	}

	ctx, cmd, err := newSite(ctx, env, flags.common, flags.site)
	if err != nil {
		return err
	}

	out, err := cmd.site.LoadAndProcessTemplate(ctx, rest[0], tc)
	if err != nil {
		return err
	}

	if unresolved := cmd.site.UnresolvedPlaceholders(out, nil); len(unresolved) > 0 {
		if flags.strict {
			return fmt.Errorf("%w: %s%s", ErrUnresolved, strings.Join(unresolved, ", "), hints.ForUnresolved(unresolved))
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "warning: %d placeholder(s) left in %s%s\n", len(unresolved), rest[0], hints.ForUnresolved(unresolved))
		}
	}

	if flags.output == "" {
		_, err := fmt.Fprint(env.Stdout, out)
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, []byte(out)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWritePage, flags.output, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "%s -> %s\n", rest[0], flags.output)
	}
	return nil
}

// parseSetValues turns KEY=VALUE pairs into a map. The value may contain
// '='; the last occurrence of a key wins.
func parseSetValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: --set %q (want KEY=VALUE)", ErrInvalidSetting, p)
		}
		values[key] = value
	}
	return values, nil
}
