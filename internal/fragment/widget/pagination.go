// Package widget computes and renders the navigation widgets that drive a
// region's offset/limit parameters: the sliding-window pagination strip and
// the incremental load-more control.
package widget

import (
	"bytes"
	"html/template"

	"finitefield.org/hanko-fragments/internal/fragment/schema"
)

// DefaultListClass styles the page-link list when the widget markup does not
// declare its own class.
const DefaultListClass = "fragment-pagination"

// Control is a prev/next sibling button.
type Control struct {
	Offset   int
	Disabled bool
}

// Page is one numbered link in the strip.
type Page struct {
	Number int // 1-based display number
	Offset int
	Active bool
}

// Strip is the computed pagination layout, ready for rendering.
type Strip struct {
	ListClass string
	Prev      Control
	Next      Control
	// First prepends a link to page 1 followed by an ellipsis when the
	// visible window has slid past the beginning.
	First bool
	Pages []Page
	// TrailingEllipsis separates the window from the last-page link, except
	// when the current page sits immediately before the cutoff.
	TrailingEllipsis bool
	Last             *Page
}

// BuildStrip computes the strip for the given widget configuration. ok is
// false when there is nothing to render: a non-positive limit, or a page
// count of one or less.
func BuildStrip(w schema.PaginationWidget) (Strip, bool) {
	if w.Limit <= 0 {
		return Strip{}, false
	}
	pageCount := (w.Total + w.Limit - 1) / w.Limit
	if pageCount <= 1 {
		return Strip{}, false
	}

	current := w.Offset / w.Limit

	s := Strip{
		ListClass: w.ListClass,
		Prev:      Control{Offset: w.Offset - w.Limit, Disabled: w.Offset == 0},
		Next:      Control{Offset: w.Offset + w.Limit, Disabled: w.Offset+w.Limit >= w.Total},
	}
	if s.ListClass == "" {
		s.ListClass = DefaultListClass
	}
	if s.Prev.Disabled {
		s.Prev.Offset = 0
	}

	start, end := 0, pageCount
	if w.MaxPages > 0 && pageCount > w.MaxPages {
		middle := w.MaxPages / 2
		if current < middle {
			start, end = 0, w.MaxPages
		} else {
			start = current - middle
			end = current + (w.MaxPages - middle)
			if end > pageCount {
				end = pageCount
			}
		}

		s.First = current > middle

		cutoff := pageCount - (w.MaxPages - middle)
		if current < cutoff {
			last := pageCount - 1
			s.Last = &Page{Number: pageCount, Offset: last * w.Limit}
			// No ellipsis in the penultimate position.
			s.TrailingEllipsis = current < cutoff-1
		}
	}

	for i := start; i < end; i++ {
		s.Pages = append(s.Pages, Page{
			Number: i + 1,
			Offset: i * w.Limit,
			Active: i*w.Limit == w.Offset,
		})
	}

	return s, true
}

var stripTemplate = template.Must(template.New("pagination").Parse(
	`<nav class="fragment-pagination-nav">` +
		`<div class="page-item{{if .Prev.Disabled}} disabled{{end}}">` +
		`<button class="page-link"{{if .Prev.Disabled}} disabled{{end}} data-indicator="sibling" data-target-offset="{{.Prev.Offset}}">&#10094;</button></div>` +
		`<ul class="{{.ListClass}}">` +
		`{{if .First}}<li class="page-item"><button class="page-link" data-indicator="number" data-target-offset="0">1</button></li>` +
		`<li class="page-item disabled"><button class="page-link" data-indicator="ellipsis">&hellip;</button></li>{{end}}` +
		`{{range .Pages}}<li class="page-item{{if .Active}} active{{end}}">` +
		`<button class="page-link" data-indicator="number" data-target-offset="{{.Offset}}">{{.Number}}</button></li>{{end}}` +
		`{{if .TrailingEllipsis}}<li class="page-item disabled"><button class="page-link" data-indicator="ellipsis">&hellip;</button></li>{{end}}` +
		`{{if .Last}}<li class="page-item"><button class="page-link" data-indicator="number" data-target-offset="{{.Last.Offset}}">{{.Last.Number}}</button></li>{{end}}` +
		`</ul>` +
		`<div class="page-item{{if .Next.Disabled}} disabled{{end}}">` +
		`<button class="page-link"{{if .Next.Disabled}} disabled{{end}} data-indicator="sibling"{{if not .Next.Disabled}} data-target-offset="{{.Next.Offset}}"{{end}}>&#10095;</button></div>` +
		`</nav>`))

// RenderPagination renders the widget to its markup fragment. An empty string
// means the widget has nothing to show and should stay empty.
func RenderPagination(w schema.PaginationWidget) (string, error) {
	strip, ok := BuildStrip(w)
	if !ok {
		return "", nil
	}
	var buf bytes.Buffer
	if err := stripTemplate.Execute(&buf, strip); err != nil {
		return "", err
	}
	return buf.String(), nil
}
