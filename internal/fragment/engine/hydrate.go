package engine

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"finitefield.org/hanko-fragments/internal/fragment/dom"
	"finitefield.org/hanko-fragments/internal/fragment/params"
	"finitefield.org/hanko-fragments/internal/fragment/schema"
	"finitefield.org/hanko-fragments/internal/fragment/token"
	"finitefield.org/hanko-fragments/internal/fragment/urlstate"
)

func (e *Engine) hydrate() {
	e.doc.Find("." + schema.MarkerClass).Each(func(_ int, sel *goquery.Selection) {
		ph := schema.DecodePlaceholder(sel)
		if !ph.Trigger.Valid() {
			e.logger.Warn("skipping region with unknown trigger",
				zap.String("trigger", string(ph.Trigger)),
				zap.String("page", ph.PageName))
			return
		}

		region := sel
		switch ph.Trigger {
		case schema.TriggerImmediate:
			e.fetch(region, "")
		case schema.TriggerVisibility:
			// One shot: the viewport stops observing after the first full
			// visibility, so the region renders at most once this way.
			e.viewport.Observe(region, func() {
				e.post(func() { e.fetch(region, "") })
			})
		case schema.TriggerClick:
			e.hydrateClick(region, ph)
		case schema.TriggerSubmit:
			e.hydrateSubmit(region, ph)
		}
	})
}

func (e *Engine) hydrateClick(region *goquery.Selection, ph schema.Placeholder) {
	trigger := dom.ByID(e.doc, ph.TriggerID)
	if trigger.Length() == 0 {
		// Missing trigger element: the region simply never renders.
		return
	}
	// Not one shot: every click re-renders.
	e.bindClick(trigger.Get(0), func() {
		e.fetch(region, "")
	})
}

func (e *Engine) hydrateSubmit(region *goquery.Selection, ph schema.Placeholder) {
	form := dom.ByID(e.doc, ph.TriggerID)
	if form.Length() == 0 {
		return
	}

	e.bindSubmit(form.Get(0), func(values url.Values) {
		flat := make(map[string]string, len(values))
		for k, vs := range values {
			flat[k] = strings.Join(vs, ph.ValueSeparator)
		}
		params.Replace(region, flat)
		if ph.UpdateURL {
			urlstate.ReplaceFromForm(e.urls, values)
		}
		e.recompute(region)
		e.fetch(region, "")
	})

	// Submit regions also render at hydration: parameters are seeded from
	// the page URL when the region mirrors into it, otherwise from the
	// stored parameter map.
	if ph.UpdateURL {
		q := e.urls.Current()
		seed := make(map[string]string, len(q))
		for k, vs := range q {
			if len(vs) > 0 {
				seed[k] = vs[len(vs)-1]
			}
		}
		params.Replace(region, seed)
		region.SetAttr(schema.AttrRenderable,
			token.Substitute(ph.TemplateModel, token.QuerySource{Values: q, Separator: ph.ValueSeparator}))
	} else {
		e.recompute(region)
	}
	e.fetch(region, "")
}

// recompute refreshes the region's renderable string from its template model
// and current parameter map. Every parameter mutation must be followed by a
// recompute before the next fetch.
func (e *Engine) recompute(region *goquery.Selection) {
	model := region.AttrOr(schema.AttrTemplateModel, "")
	region.SetAttr(schema.AttrRenderable,
		token.Substitute(model, token.ParamsSource(params.Get(region))))
}
