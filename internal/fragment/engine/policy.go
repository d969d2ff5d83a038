package engine

import "github.com/microcosm-cc/bluemonday"

// DefaultPolicy returns the sanitization policy applied to service-returned
// markup. It extends the UGC baseline with the elements and attributes the
// widget wire format depends on, so embedded pagination and load-more
// containers survive sanitization.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataAttributes()
	p.AllowElements("nav", "button", "span", "form", "label", "select", "option", "input", "article")
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("disabled", "hidden").OnElements("button", "input", "select", "div")
	p.AllowAttrs("type", "name", "value", "placeholder").OnElements("input", "button")
	return p
}
