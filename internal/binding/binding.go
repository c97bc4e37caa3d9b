// Package binding populates document text from JSON data files.
package binding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/logging"
)

// Data file locations relative to the site root.
const (
	DefaultEventsPath    = "data/events.json"
	DefaultRulesPath     = "data/rules.json"
	DefaultFieldInfoPath = "data/field-info.json"

	// DefaultRoot is the object inside the events file the default
	// bindings read from.
	DefaultRoot = "nextGame"
)

// Missing is written for a field absent from the data.
const Missing = "undefined"

var (
	ErrInvalidData = errors.New("invalid JSON data")
	ErrMissingRoot = errors.New("data root not found")
)

// Binding writes the values at Fields, joined by Separator, into every
// element carrying Class.
type Binding struct {
	Class     string
	Fields    []string
	Separator string
}

// Value resolves the binding against data.
func (b Binding) Value(data gjson.Result) string {
	parts := make([]string, len(b.Fields))
	for i, f := range b.Fields {
		r := data.Get(f)
		if !r.Exists() {
			parts[i] = Missing
			continue
		}
		parts[i] = r.String()
	}
	return strings.Join(parts, b.Separator)
}

// DefaultBindings returns the next-game bindings used on the home page.
func DefaultBindings() []Binding {
	return []Binding{
		{Class: "event-date", Fields: []string{"date"}},
		{Class: "event-time", Fields: []string{"time"}},
		{Class: "event-location", Fields: []string{"location", "address"}, Separator: " - "},
	}
}

// Document is the binding target.
type Document interface {
	SetTextByClass(class, text string) int
}

// Binder applies a set of bindings from one data file.
type Binder struct {
	path     string
	root     string
	bindings []Binding
}

// Option configures a Binder.
type Option func(*Binder)

// WithPath sets the data file, relative to the site root.
func WithPath(p string) Option {
	return func(b *Binder) { b.path = p }
}

// WithRoot sets the gjson path of the object the bindings resolve against.
// An empty root binds against the whole document.
func WithRoot(root string) Option {
	return func(b *Binder) { b.root = root }
}

// WithBindings replaces the default bindings.
func WithBindings(bindings ...Binding) Option {
	return func(b *Binder) { b.bindings = bindings }
}

// NewBinder returns a Binder for the events file and default bindings
// unless overridden.
func NewBinder(opts ...Option) *Binder {
	b := &Binder{
		path:     DefaultEventsPath,
		root:     DefaultRoot,
		bindings: DefaultBindings(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the data file the binder reads.
func (b *Binder) Path() string { return b.path }

// Bind fetches the data file and writes every binding into doc. It returns
// how many elements were updated. Failures are logged once and returned;
// no element is written when the data cannot be loaded.
func (b *Binder) Bind(ctx context.Context, doc Document, fetcher assets.Fetcher) (int, error) {
	data, err := LoadData(ctx, fetcher, b.path)
	if err != nil {
		logging.FromContext(ctx).Error("error loading event data", "path", b.path, "error", err)
		return 0, err
	}

	if b.root != "" {
		data = data.Get(b.root)
		if !data.Exists() {
			err := fmt.Errorf("%w: %s in %s", ErrMissingRoot, b.root, b.path)
			logging.FromContext(ctx).Error("error loading event data", "path", b.path, "error", err)
			return 0, err
		}
	}

	updated := 0
	for _, binding := range b.bindings {
		n := doc.SetTextByClass(binding.Class, binding.Value(data))
		logging.FromContext(ctx).Debug("bound data", "class", binding.Class, "elements", n)
		updated += n
	}
	return updated, nil
}

// LoadData fetches path and checks that it holds valid JSON.
func LoadData(ctx context.Context, fetcher assets.Fetcher, path string) (gjson.Result, error) {
	raw, err := fetcher.Fetch(ctx, path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %s: %w", assets.ErrRetrieval, path, err)
	}
	if !gjson.Valid(raw) {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrInvalidData, path)
	}
	return gjson.Parse(raw), nil
}

// LoadAll loads each data file in turn, logging and skipping the ones
// that fail. The result is keyed by path.
func LoadAll(ctx context.Context, fetcher assets.Fetcher, paths ...string) map[string]gjson.Result {
	out := make(map[string]gjson.Result, len(paths))
	for _, p := range paths {
		data, err := LoadData(ctx, fetcher, p)
		if err != nil {
			logging.FromContext(ctx).Error("error loading data", "path", p, "error", err)
			continue
		}
		out[p] = data
	}
	return out
}
