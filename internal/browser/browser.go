// Package browser loads a served page in headless Chrome and reports which
// fragment containers ended up populated.
//
// It checks the site end to end: the fragment loader, the data binding and
// the static server all have to work for a container to fill in a real
// browser. Rod downloads Chromium on first use when none is installed;
// ROD_BROWSER_BIN points it at an existing binary instead.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTimeout bounds page load plus the wait for containers to fill.
const DefaultTimeout = 30 * time.Second

var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrEvaluate       = errors.New("failed to inspect page")
)

// ContainerStatus describes one container after the page settled.
type ContainerStatus struct {
	ID        string `json:"id"`
	Present   bool   `json:"present"`
	Populated bool   `json:"populated"`
	Length    int    `json:"length"`
}

// Report is the result of probing one page.
type Report struct {
	URL        string            `json:"url"`
	Title      string            `json:"title"`
	Containers []ContainerStatus `json:"containers"`
	Bindings   map[string]string `json:"bindings,omitempty"`
}

// Empty returns the ids of containers that are absent or still empty.
func (r *Report) Empty() []string {
	var ids []string
	for _, c := range r.Containers {
		if !c.Populated {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// OK reports whether every container was populated.
func (r *Report) OK() bool {
	return len(r.Empty()) == 0
}

// Prober inspects a live page.
type Prober interface {
	Probe(ctx context.Context, url string, containerIDs, bindingClasses []string) (*Report, error)
	Close() error
}

var _ Prober = (*RodProber)(nil)

// RodProber implements Prober with go-rod. The browser starts lazily on the
// first Probe and is reused until Close.
type RodProber struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewRodProber creates a RodProber. A non-positive timeout selects
// DefaultTimeout.
func NewRodProber(timeout time.Duration) *RodProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RodProber{timeout: timeout}
}

func (p *RodProber) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	p.launcher = l

	p.browser = rod.New().ControlURL(u)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		p.killLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases the browser and kills its process tree.
func (p *RodProber) Close() error {
	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	p.killLauncher()
	return err
}

func (p *RodProber) killLauncher() {
	if p.launcher == nil {
		return
	}
	if pid := p.launcher.PID(); pid > 0 {
		killProcessGroup(pid)
	}
	p.launcher.Kill()
	p.launcher.Cleanup()
	p.launcher = nil
}

// settleJS resolves true once every listed container that exists has
// content. Containers missing from the page do not hold it up.
const settleJS = `(ids) => ids.every(id => {
  const el = document.getElementById(id);
  return !el || el.innerHTML.trim() !== '';
})`

// inspectJS reports container state and the text of the first element
// carrying each binding class.
const inspectJS = `(ids, classes) => ({
  title: document.title,
  containers: ids.map(id => {
    const el = document.getElementById(id);
    const html = el ? el.innerHTML.trim() : '';
    return {id: id, present: !!el, populated: html !== '', length: html.length};
  }),
  bindings: Object.fromEntries(classes.map(c => {
    const el = document.querySelector('.' + CSS.escape(c));
    return [c, el ? el.textContent : ''];
  })),
})`

// Probe opens url, waits for the listed containers to fill (or the timeout
// to pass) and reports their state. A container that never fills is a
// finding in the report, not an error.
func (p *RodProber) Probe(ctx context.Context, url string, containerIDs, bindingClasses []string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if containerIDs == nil {
		containerIDs = []string{}
	}
	if bindingClasses == nil {
		bindingClasses = []string{}
	}

	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx)

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Fragments arrive after load; a timeout here just means some never did.
	_ = page.Timeout(timeout).Wait(rod.Eval(settleJS, containerIDs))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := page.Eval(inspectJS, containerIDs, bindingClasses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluate, err)
	}

	var raw struct {
		Title      string            `json:"title"`
		Containers []ContainerStatus `json:"containers"`
		Bindings   map[string]string `json:"bindings"`
	}
	if err := res.Value.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluate, err)
	}

	return &Report{
		URL:        url,
		Title:      strings.TrimSpace(raw.Title),
		Containers: raw.Containers,
		Bindings:   raw.Bindings,
	}, nil
}
