// Package engine drives deferred and reactive rendering of page regions. It
// owns the region lifecycle: trigger dispatch, parameter state, template
// substitution, remote render fetches, and the navigation widgets that loop
// back into the fetch cycle.
//
// The engine mirrors a cooperative, event-driven environment: a single loop
// goroutine owns the document and all mutable state, external inputs are
// posted as events, and render fetches are the only asynchronous suspension
// points. Responses are applied in completion order; nothing stops two
// fetches for the same region being in flight at once, and the last one to
// complete wins.
package engine

import (
	"context"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"finitefield.org/hanko-fragments/internal/fragment/dom"
	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
	"finitefield.org/hanko-fragments/internal/fragment/urlstate"
)

// Engine binds behavior to the deferred regions of one document.
// All exported methods are safe for concurrent use; they post events onto
// the internal loop and return without waiting for the effect.
type Engine struct {
	doc      *goquery.Document
	svc      renderclient.Service
	urls     urlstate.Synchronizer
	viewport Viewport
	policy   *bluemonday.Policy
	logger   *zap.Logger
	ctx      context.Context

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []func()
	pending  int
	inflight int
	closed   bool
	waiters  []chan struct{}

	clicks  map[*html.Node][]func()
	submits map[*html.Node]func(url.Values)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithURLState injects the page URL port. Defaults to an in-memory URL so
// the engine works without a surrounding page.
func WithURLState(s urlstate.Synchronizer) Option {
	return func(e *Engine) {
		if s != nil {
			e.urls = s
		}
	}
}

// WithViewport injects the visibility/scroll port. Defaults to a viewport
// that never reports visibility, so visibility-triggered regions stay idle.
func WithViewport(v Viewport) Option {
	return func(e *Engine) {
		if v != nil {
			e.viewport = v
		}
	}
}

// WithSanitizer overrides the policy applied to service-returned markup
// before injection. Passing nil disables sanitization.
func WithSanitizer(p *bluemonday.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithContext sets the base context used for render fetches.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// New constructs an engine over the parsed document and starts its loop.
// Call Close when done.
func New(doc *goquery.Document, svc renderclient.Service, opts ...Option) *Engine {
	pageURL, _ := urlstate.NewPageURL("https://example.invalid/page")
	e := &Engine{
		doc:      doc,
		svc:      svc,
		urls:     pageURL,
		viewport: NopViewport{},
		policy:   DefaultPolicy(),
		logger:   zap.NewNop(),
		ctx:      context.Background(),
		clicks:   make(map[*html.Node][]func()),
		submits:  make(map[*html.Node]func(url.Values)),
	}
	e.cond = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	go e.loop()
	return e
}

func (e *Engine) loop() {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		fn := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		fn()

		e.mu.Lock()
		e.pending--
		e.notifyIdleLocked()
		e.mu.Unlock()
	}
}

// post enqueues fn for execution on the loop. Events posted after Close are
// dropped.
func (e *Engine) post(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.pending++
	e.queue = append(e.queue, fn)
	e.cond.Signal()
}

func (e *Engine) notifyIdleLocked() {
	if (e.pending == 0 && e.inflight == 0) || e.closed {
		for _, ch := range e.waiters {
			close(ch)
		}
		e.waiters = nil
	}
}

// Close stops the loop after draining queued events. In-flight fetch results
// arriving later are discarded.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.notifyIdleLocked()
	e.cond.Broadcast()
	e.mu.Unlock()
}

// Idle blocks until no events are queued and no fetches are in flight, or
// until ctx is done.
func (e *Engine) Idle(ctx context.Context) error {
	e.mu.Lock()
	if (e.pending == 0 && e.inflight == 0) || e.closed {
		e.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	e.waiters = append(e.waiters, ch)
	e.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hydrate scans the document for deferred regions and binds their trigger
// behavior. It is meant to run exactly once per document.
func (e *Engine) Hydrate() {
	e.post(e.hydrate)
}

// Click dispatches a click on the element with the given id. Unknown ids and
// unbound elements no-op.
func (e *Engine) Click(id string) {
	e.post(func() {
		sel := dom.ByID(e.doc, id)
		if sel.Length() == 0 {
			return
		}
		e.fire(sel.Get(0))
	})
}

// ClickMatch dispatches a click on the first element matching the CSS
// selector. Useful for generated widget buttons, which carry no ids.
func (e *Engine) ClickMatch(selector string) {
	e.post(func() {
		sel := e.doc.Find(selector).First()
		if sel.Length() == 0 {
			return
		}
		e.fire(sel.Get(0))
	})
}

// Submit dispatches a form submission with the given field values against
// the form element with the given id. The default navigation a submit would
// cause in a browser is implicitly suppressed; only the bound handler runs.
func (e *Engine) Submit(id string, form url.Values) {
	e.post(func() {
		sel := dom.ByID(e.doc, id)
		if sel.Length() == 0 {
			return
		}
		if fn, ok := e.submits[sel.Get(0)]; ok {
			fn(form)
		}
	})
}

// HTML serializes the current document from within the loop, so the result
// is consistent with all previously posted events. Must not be called after
// Close.
func (e *Engine) HTML(ctx context.Context) (string, error) {
	type result struct {
		html string
		err  error
	}
	ch := make(chan result, 1)
	e.post(func() {
		h, err := e.doc.Html()
		ch <- result{h, err}
	})
	select {
	case r := <-ch:
		return r.html, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *Engine) bindClick(n *html.Node, fn func()) {
	e.clicks[n] = append(e.clicks[n], fn)
}

func (e *Engine) bindSubmit(n *html.Node, fn func(url.Values)) {
	e.submits[n] = fn
}

func (e *Engine) unbind(n *html.Node) {
	delete(e.clicks, n)
	delete(e.submits, n)
}

// fire runs the click handlers bound to n in registration order.
func (e *Engine) fire(n *html.Node) {
	handlers := append([]func(){}, e.clicks[n]...)
	for _, fn := range handlers {
		fn()
	}
}

// dropBindings forgets handlers bound to descendants of root, which are
// about to be detached by a wholesale content replacement.
func (e *Engine) dropBindings(root *goquery.Selection) {
	if root.Length() == 0 {
		return
	}
	rootNode := root.Get(0)
	for n := range e.clicks {
		if hasAncestor(n, rootNode) {
			delete(e.clicks, n)
		}
	}
	for n := range e.submits {
		if hasAncestor(n, rootNode) {
			delete(e.submits, n)
		}
	}
}

func hasAncestor(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
