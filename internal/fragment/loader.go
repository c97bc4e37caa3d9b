package fragment

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/dom"
	"github.com/wizardswiffle/clubsite/internal/logging"
)

const tracerName = "github.com/wizardswiffle/clubsite/internal/fragment"

// Option configures a Loader.
type Option func(*options)

type options struct {
	transforms []Transform
	workers    int
	tracer     trace.Tracer
}

// WithTransform appends transforms, applied in order between retrieval and
// injection.
func WithTransform(t ...Transform) Option {
	return func(o *options) {
		for _, fn := range t {
			if fn != nil {
				o.transforms = append(o.transforms, fn)
			}
		}
	}
}

// WithWorkers bounds how many retrievals a concurrent loader runs at once.
// Zero or negative means one goroutine per request. Ignored by the
// sequential loader.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTracerProvider sets the provider used for load spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}

// New returns the Loader implementing strategy.
func New(strategy Strategy, fetcher assets.Fetcher, opts ...Option) (Loader, error) {
	if fetcher == nil {
		return nil, errors.New("fragment: nil fetcher")
	}

	o := options{tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(&o)
	}

	b := base{fetcher: fetcher, opts: o}
	switch strategy {
	case Concurrent:
		return &ConcurrentLoader{base: b}, nil
	case Sequential:
		return &SequentialLoader{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStrategy, strategy)
	}
}

// base holds what both strategies share: retrieval, transforms, injection
// and diagnostics. write serializes the DOM mutation step.
type base struct {
	fetcher assets.Fetcher
	opts    options
}

func (b *base) load(ctx context.Context, doc Document, req Request, write func(func() error) error) (out Outcome) {
	start := time.Now()
	out = Outcome{Request: req, State: Pending}

	ctx, span := b.opts.tracer.Start(ctx, "fragment.load", trace.WithAttributes(
		attribute.String("fragment.container", req.ContainerID),
		attribute.String("fragment.path", req.SourcePath),
	))
	defer func() {
		if r := recover(); r != nil {
			out.State = Failed
			out.Err = fmt.Errorf("fragment: panic loading %s: %v", req.SourcePath, r)
			logging.FromContext(ctx).Error("panic loading component",
				"path", req.SourcePath,
				"container", req.ContainerID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
		out.Duration = time.Since(start)
		if out.Err != nil {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		}
		span.End()
	}()

	content, err := b.fetcher.Fetch(ctx, req.SourcePath)
	if err != nil {
		out.State = Failed
		out.Err = fmt.Errorf("%w: %s: %w", ErrRetrieval, req.SourcePath, err)
		logging.FromContext(ctx).Error("error loading component",
			"path", req.SourcePath,
			"error", err,
		)
		return out
	}

	for _, t := range b.opts.transforms {
		content, err = t(ctx, req, content)
		if err != nil {
			out.State = Failed
			out.Err = fmt.Errorf("%w: %s: %w", ErrTransform, req.SourcePath, err)
			logging.FromContext(ctx).Error("error transforming component",
				"path", req.SourcePath,
				"error", err,
			)
			return out
		}
	}

	err = write(func() error { return doc.SetInnerHTML(req.ContainerID, content) })
	if err != nil {
		out.State = Failed
		if errors.Is(err, dom.ErrElementNotFound) {
			out.Err = fmt.Errorf("%w: %s", ErrContainerMissing, req.ContainerID)
			logging.FromContext(ctx).Error("container element not found",
				"container", req.ContainerID,
			)
		} else {
			out.Err = fmt.Errorf("fragment: injecting into %s: %w", req.ContainerID, err)
			logging.FromContext(ctx).Error("error injecting component",
				"container", req.ContainerID,
				"error", err,
			)
		}
		return out
	}

	out.State = Fulfilled
	logging.FromContext(ctx).Debug("component loaded",
		"container", req.ContainerID,
		"path", req.SourcePath,
		"bytes", len(content),
	)
	return out
}

// ConcurrentLoader issues every retrieval without waiting on the others.
// Writes into the document go through a single mutex.
type ConcurrentLoader struct {
	base
	mu sync.Mutex
}

func (l *ConcurrentLoader) write(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// Load implements Loader.
func (l *ConcurrentLoader) Load(ctx context.Context, doc Document, req Request) Outcome {
	return l.load(ctx, doc, req, l.write)
}

// LoadAll implements Loader. It returns after every request settled.
func (l *ConcurrentLoader) LoadAll(ctx context.Context, doc Document, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))
	if len(reqs) == 0 {
		return outcomes
	}

	workers := l.opts.workers
	if workers <= 0 || workers > len(reqs) {
		workers = len(reqs)
	}

	jobs := make(chan int, len(reqs))
	for i := range reqs {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = l.Load(ctx, doc, reqs[i])
			}
		}()
	}
	wg.Wait()

	return outcomes
}

// SequentialLoader completes each request, DOM write included, before
// starting the next.
type SequentialLoader struct {
	base
}

func direct(fn func() error) error { return fn() }

// Load implements Loader.
func (l *SequentialLoader) Load(ctx context.Context, doc Document, req Request) Outcome {
	return l.load(ctx, doc, req, direct)
}

// LoadAll implements Loader. Requests run in order.
func (l *SequentialLoader) LoadAll(ctx context.Context, doc Document, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))
	for i, req := range reqs {
		outcomes[i] = l.Load(ctx, doc, req)
	}
	return outcomes
}
