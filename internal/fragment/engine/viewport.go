package engine

import (
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Viewport is the port over the browser viewport. Observe registers a
// one-shot callback for when the target element first becomes fully visible;
// ScrollTo brings the target near the top of the content area.
type Viewport interface {
	Observe(target *goquery.Selection, fn func())
	ScrollTo(target *goquery.Selection)
}

// NopViewport never reports visibility and ignores scroll requests.
type NopViewport struct{}

func (NopViewport) Observe(*goquery.Selection, func()) {}

func (NopViewport) ScrollTo(*goquery.Selection) {}

type simObserver struct {
	id string
	fn func()
}

// SimViewport is a scriptable viewport for tests and headless runs.
// Observed elements are keyed by their id attribute at registration time.
type SimViewport struct {
	mu        sync.Mutex
	observers []simObserver
	scrolled  []string
}

// NewSimViewport constructs an empty simulated viewport.
func NewSimViewport() *SimViewport {
	return &SimViewport{}
}

// Observe implements Viewport.
func (v *SimViewport) Observe(target *goquery.Selection, fn func()) {
	id := target.AttrOr("id", "")
	v.mu.Lock()
	v.observers = append(v.observers, simObserver{id: id, fn: fn})
	v.mu.Unlock()
}

// ScrollTo implements Viewport, recording the target's id.
func (v *SimViewport) ScrollTo(target *goquery.Selection) {
	id := target.AttrOr("id", "")
	v.mu.Lock()
	v.scrolled = append(v.scrolled, id)
	v.mu.Unlock()
}

// Reveal marks the element with the given id as fully visible, firing and
// dropping every observer registered for it.
func (v *SimViewport) Reveal(id string) {
	v.fireMatching(func(o simObserver) bool { return o.id == id })
}

// RevealAll fires and drops every registered observer.
func (v *SimViewport) RevealAll() {
	v.fireMatching(func(simObserver) bool { return true })
}

func (v *SimViewport) fireMatching(match func(simObserver) bool) {
	v.mu.Lock()
	var fire []func()
	keep := v.observers[:0]
	for _, o := range v.observers {
		if match(o) {
			fire = append(fire, o.fn)
		} else {
			keep = append(keep, o)
		}
	}
	v.observers = keep
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Scrolled returns the ids scrolled to, in order.
func (v *SimViewport) Scrolled() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.scrolled...)
}

// Observing reports how many observers are currently registered.
func (v *SimViewport) Observing() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}
