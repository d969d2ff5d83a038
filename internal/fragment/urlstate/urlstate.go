// Package urlstate abstracts the browser address bar as an injectable port
// and implements the merge rules that keep the query string in step with a
// region's parameter state.
package urlstate

import (
	"net/url"
	"sync"

	"finitefield.org/hanko-fragments/internal/fragment/schema"
)

// IdentityParam names the page-identity query parameter. It is owned by the
// surrounding page, not by any region, and must survive every rewrite.
const IdentityParam = "title"

// Synchronizer is the port over the page URL. Replace rewrites the visible
// query without navigation and without growing history.
type Synchronizer interface {
	Current() url.Values
	Replace(url.Values)
}

// MergeReplace folds updates into the current query, last write wins per
// key, and rewrites the URL. Keys absent from updates are preserved, which
// keeps the page-identity parameter intact.
func MergeReplace(s Synchronizer, updates url.Values) {
	q := s.Current()
	for k, vs := range updates {
		q[k] = append([]string(nil), vs...)
	}
	s.Replace(q)
}

// ReplaceFromForm rebuilds the query from submitted form values. The
// page-identity parameter is carried over verbatim from the current URL when
// present, and offset is reset to zero because a form submission changes the
// pagination context.
func ReplaceFromForm(s Synchronizer, form url.Values) {
	q := url.Values{}
	for k, vs := range form {
		q[k] = append([]string(nil), vs...)
	}
	if identity := s.Current().Get(IdentityParam); identity != "" {
		q.Set(IdentityParam, identity)
	}
	q.Set(schema.ParamOffset, "0")
	s.Replace(q)
}

// PageURL is an in-process Synchronizer backed by a mutable URL, the
// stand-in for history.replaceState against window.location.
type PageURL struct {
	mu sync.Mutex
	u  *url.URL
}

// NewPageURL parses raw as the page's initial location.
func NewPageURL(raw string) (*PageURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &PageURL{u: u}, nil
}

// Current returns a copy of the query values.
func (p *PageURL) Current() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.u.Query()
}

// Replace swaps the query string in place, leaving path and fragment alone.
func (p *PageURL) Replace(values url.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.u.RawQuery = values.Encode()
}

// String renders the full current URL.
func (p *PageURL) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.u.String()
}
