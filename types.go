package clubsite

import (
	"github.com/tidwall/gjson"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/binding"
	"github.com/wizardswiffle/clubsite/internal/fragment"
	"github.com/wizardswiffle/clubsite/internal/placeholder"
)

// FragmentRequest names a container and the fragment injected into it.
type FragmentRequest = fragment.Request

// Outcome reports how one fragment request settled.
type Outcome = fragment.Outcome

// Strategy selects concurrent or sequential fragment loading.
type Strategy = fragment.Strategy

// Loading strategies.
const (
	Concurrent = fragment.Concurrent
	Sequential = fragment.Sequential
)

// Request states.
const (
	Pending   = fragment.Pending
	Fulfilled = fragment.Fulfilled
	Failed    = fragment.Failed
)

// TemplateContext maps placeholder names to values.
type TemplateContext = placeholder.Context

// Binding writes data values into elements by class name.
type Binding = binding.Binding

// Fetcher retrieves site files by relative path.
type Fetcher = assets.Fetcher

// DefaultPage is the host page assembled when Input names none.
const DefaultPage = "index.html"

// DefaultManifest returns the home page's containers and fragments.
func DefaultManifest() []FragmentRequest {
	return fragment.DefaultManifest()
}

// DefaultBindings returns the next-game bindings.
func DefaultBindings() []Binding {
	return binding.DefaultBindings()
}

// ParseStrategy parses "concurrent" or "sequential".
func ParseStrategy(s string) (Strategy, error) {
	return fragment.ParseStrategy(s)
}

// Input describes one page to assemble.
type Input struct {
	// Page is host page markup. When empty, PagePath is fetched instead.
	Page string

	// PagePath is the host page's path relative to the site root.
	// Defaults to DefaultPage.
	PagePath string

	// Manifest lists the fragments to load. Nil selects DefaultManifest.
	Manifest []FragmentRequest
}

// Result is an assembled page.
type Result struct {
	// HTML is the rendered document.
	HTML []byte

	// Outcomes has one entry per manifest request, in manifest order.
	Outcomes []Outcome

	// Bound counts elements written by data binding.
	Bound int

	// BindErr holds the data binding failure, if any. It does not fail
	// assembly.
	BindErr error

	// Data holds the extra data files that loaded, keyed by path.
	Data map[string]gjson.Result
}

// Failed returns the outcomes that did not fulfil.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.State == fragment.Failed {
			out = append(out, o)
		}
	}
	return out
}
