package fragment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wizardswiffle/clubsite/internal/assets"
)

// Sentinel errors for fragment loading.
var (
	// ErrRetrieval is assets.ErrRetrieval, re-exported so callers of this
	// package need not import assets to classify outcomes.
	ErrRetrieval = assets.ErrRetrieval

	ErrContainerMissing = errors.New("container element not found")
	ErrTransform        = errors.New("fragment transform failed")
	ErrInvalidStrategy  = errors.New("invalid loader strategy")
)

// Request names a container and the fragment to inject into it.
type Request struct {
	ContainerID string
	SourcePath  string
}

// State is the lifecycle position of one request.
type State int

// Request states. Fulfilled and Failed are terminal.
const (
	Pending State = iota
	Fulfilled
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome records how a single request settled.
type Outcome struct {
	Request  Request
	State    State
	Err      error
	Duration time.Duration
}

// OK reports whether the fragment was injected.
func (o Outcome) OK() bool {
	return o.State == Fulfilled
}

// Document is the injection target. Implementations must return an error
// wrapping dom.ErrElementNotFound when the container does not exist, and
// must leave the tree unchanged whenever they return an error.
type Document interface {
	SetInnerHTML(id, markup string) error
}

// Transform rewrites fetched fragment text before injection. Placeholder
// substitution, Markdown rendering and sanitizing are all transforms.
type Transform func(ctx context.Context, req Request, content string) (string, error)

// Loader loads fragments into a document.
type Loader interface {
	// Load retrieves one fragment and injects it. It never returns an error;
	// failures are reported in the Outcome and logged once.
	Load(ctx context.Context, doc Document, req Request) Outcome

	// LoadAll issues every request and returns one Outcome per request, in
	// request order, after all of them settled.
	LoadAll(ctx context.Context, doc Document, reqs []Request) []Outcome
}

// Strategy selects a Loader implementation.
type Strategy int

// Loader strategies.
const (
	Concurrent Strategy = iota
	Sequential
)

func (s Strategy) String() string {
	switch s {
	case Concurrent:
		return "concurrent"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "concurrent" or "sequential" (case-insensitive).
// An empty string selects Concurrent.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "concurrent":
		return Concurrent, nil
	case "sequential":
		return Sequential, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be concurrent or sequential)", ErrInvalidStrategy, s)
	}
}

// StrategyFor maps the host's capability to overlap retrievals onto a
// strategy.
func StrategyFor(concurrentRetrieval bool) Strategy {
	if concurrentRetrieval {
		return Concurrent
	}
	return Sequential
}

// Summary counts settled outcomes.
type Summary struct {
	Fulfilled int
	Failed    int
}

// Summarize tallies outcomes by state.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.State {
		case Fulfilled:
			s.Fulfilled++
		case Failed:
			s.Failed++
		}
	}
	return s
}
