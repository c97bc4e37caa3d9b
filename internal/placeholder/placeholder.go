// Package placeholder substitutes {{NAME}} tokens in fragment and page
// templates.
//
// Substitution is a single left-to-right pass over the input: values are
// never rescanned, so the order keys are declared in cannot change the
// result. Keys must not overlap: when one key's token is a substring of
// another's the outcome is unspecified.
package placeholder

import (
	"fmt"
	"sort"
	"strings"
)

// Default delimiters.
const (
	DefaultLeftDelim  = "{{"
	DefaultRightDelim = "}}"
)

// Context maps placeholder names to substitution values. A nil value
// substitutes the empty string.
type Context map[string]any

// Processor performs placeholder substitution with a fixed delimiter pair.
// The zero value is not usable; use New.
type Processor struct {
	left, right string
}

// Option configures a Processor.
type Option func(*Processor)

// WithDelims overrides the delimiter pair. Empty values keep the default.
func WithDelims(left, right string) Option {
	return func(p *Processor) {
		if left != "" {
			p.left = left
		}
		if right != "" {
			p.right = right
		}
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{left: DefaultLeftDelim, right: DefaultRightDelim}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultProcessor = New()

// Process replaces every {{key}} token in raw using the default delimiters.
func Process(raw string, ctx Context) string {
	return defaultProcessor.Process(raw, ctx)
}

// Process replaces every occurrence of each key's token with the key's
// value. Keys that are empty or contain a delimiter are ignored, and tokens
// with no matching key are left verbatim.
func (p *Processor) Process(raw string, ctx Context) string {
	if len(ctx) == 0 || raw == "" {
		return raw
	}

	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if p.validName(k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return raw
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, p.token(k), stringify(ctx[k]))
	}
	return strings.NewReplacer(pairs...).Replace(raw)
}

// Names returns the well-formed placeholder names in raw, in order of first
// appearance, without duplicates.
func (p *Processor) Names(raw string) []string {
	var names []string
	seen := make(map[string]bool)

	rest := raw
	for {
		start := strings.Index(rest, p.left)
		if start == -1 {
			return names
		}
		rest = rest[start+len(p.left):]

		end := strings.Index(rest, p.right)
		if end == -1 {
			return names
		}
		name := rest[:end]

		// A nested opening delimiter means the outer token is malformed;
		// resume scanning at the inner one.
		if inner := strings.LastIndex(name, p.left); inner != -1 {
			rest = rest[inner:]
			continue
		}

		rest = rest[end+len(p.right):]
		if isIdentifier(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
}

// Unresolved returns the well-formed placeholder names in raw that ctx does
// not provide.
func (p *Processor) Unresolved(raw string, ctx Context) []string {
	var missing []string
	for _, name := range p.Names(raw) {
		if _, ok := ctx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Names lists placeholder names using the default delimiters.
func Names(raw string) []string {
	return defaultProcessor.Names(raw)
}

// Unresolved lists missing placeholder names using the default delimiters.
func Unresolved(raw string, ctx Context) []string {
	return defaultProcessor.Unresolved(raw, ctx)
}

func (p *Processor) token(name string) string {
	return p.left + name + p.right
}

func (p *Processor) validName(name string) bool {
	return name != "" &&
		!strings.Contains(name, p.left) &&
		!strings.Contains(name, p.right)
}

// isIdentifier reports whether s is a bare identifier: letters, digits,
// '_', '-' and '.', not starting with a digit.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '-' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
