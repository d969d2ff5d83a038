package engine

import (
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"finitefield.org/hanko-fragments/internal/fragment/dom"
	"finitefield.org/hanko-fragments/internal/fragment/params"
	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
	"finitefield.org/hanko-fragments/internal/fragment/schema"
	"finitefield.org/hanko-fragments/internal/fragment/urlstate"
	"finitefield.org/hanko-fragments/internal/fragment/widget"
)

const linkClass = "page-link"

// fetch dispatches one render request for the region. The request runs on
// its own goroutine; its result is applied back on the loop whenever it
// completes. There is no deduplication and no cancellation, so a slow
// earlier fetch can overwrite a faster later one.
func (e *Engine) fetch(region *goquery.Selection, override schema.TargetAction) {
	ph := schema.DecodePlaceholder(region)
	action := ph.TargetAction
	if override != "" {
		action = override
	}

	taskID := ulid.Make().String()
	e.logger.Debug("dispatching render fetch",
		zap.String("task", taskID),
		zap.String("page", ph.PageName),
		zap.String("action", string(action)))

	req := renderclient.Request{
		ContentModel: renderclient.ContentModelWikitext,
		PageName:     ph.PageName,
		Content:      ph.Renderable,
	}

	e.mu.Lock()
	e.inflight++
	e.mu.Unlock()

	go func() {
		markup, err := e.svc.Render(e.ctx, req)

		e.mu.Lock()
		e.inflight--
		if !e.closed {
			e.pending++
			e.queue = append(e.queue, func() {
				e.applyResult(region, ph, action, markup, err, taskID)
			})
			e.cond.Signal()
		}
		e.notifyIdleLocked()
		e.mu.Unlock()
	}()
}

func (e *Engine) applyResult(region *goquery.Selection, ph schema.Placeholder, action schema.TargetAction, markup string, err error, taskID string) {
	if err != nil {
		// Terminal for this attempt: surface an empty region, let the user
		// re-trigger. Other regions are unaffected.
		e.logger.Error("render fetch failed",
			zap.String("task", taskID),
			zap.String("page", ph.PageName),
			zap.Error(err))
		e.applyMarkup(region, action, "")
		return
	}

	if e.policy != nil {
		markup = e.policy.Sanitize(markup)
	}
	e.applyMarkup(region, action, markup)
	region.Find("." + schema.SpinnerClass).Remove()

	// Widget instances are replaced wholesale: rediscover them in the fresh
	// markup and bind from scratch.
	e.renderPagination(region, ph)
	e.renderLoadMore(region, ph)
}

func (e *Engine) applyMarkup(region *goquery.Selection, action schema.TargetAction, markup string) {
	switch action {
	case schema.ActionAppend:
		region.AppendHtml(markup)
	case schema.ActionPrepend:
		region.PrependHtml(markup)
	default:
		e.dropBindings(region)
		region.SetHtml(markup)
	}
}

func (e *Engine) renderPagination(region *goquery.Selection, ph schema.Placeholder) {
	var pag *goquery.Selection
	switch {
	case ph.PaginationID != "":
		pag = dom.ByID(e.doc, ph.PaginationID)
	case ph.PaginationClass != "":
		pag = region.Find(ph.PaginationClass).First()
	default:
		return
	}
	if pag.Length() == 0 {
		return
	}

	w, err := schema.DecodePagination(pag)
	if err != nil {
		e.logger.Warn("skipping malformed pagination widget", zap.Error(err))
		return
	}
	markup, err := widget.RenderPagination(w)
	if err != nil {
		e.logger.Warn("pagination render failed", zap.Error(err))
		return
	}

	e.dropBindings(pag)
	pag.SetHtml(markup)
	if markup == "" {
		return
	}
	e.bindPagination(pag, region, ph)
}

func (e *Engine) bindPagination(pag, region *goquery.Selection, ph schema.Placeholder) {
	pag.Find("button." + linkClass).Each(func(_ int, btn *goquery.Selection) {
		indicator := btn.AttrOr(schema.AttrIndicator, "")
		if indicator == schema.IndicatorEllipsis {
			return
		}
		if _, disabled := btn.Attr("disabled"); disabled {
			return
		}
		offsetVal, ok := btn.Attr(schema.AttrTargetOffset)
		if !ok {
			return
		}

		button := btn
		e.bindClick(btn.Get(0), func() {
			params.Merge(region, map[string]string{schema.ParamOffset: offsetVal})
			if ph.UpdateURL {
				// The offset change is the point here, so no reset rule.
				urlstate.MergeReplace(e.urls, url.Values{schema.ParamOffset: {offsetVal}})
			}
			e.recompute(region)
			e.fetch(region, schema.ActionReplace)
			if indicator == schema.IndicatorNumber {
				pag.Find(".active").RemoveClass("active")
				button.Parent().AddClass("active")
			}
			e.viewport.ScrollTo(region)
		})
	})
}

func (e *Engine) renderLoadMore(region *goquery.Selection, ph schema.Placeholder) {
	if ph.LoadMoreID == "" {
		return
	}
	wsel := dom.ByID(e.doc, ph.LoadMoreID)
	if wsel.Length() == 0 {
		return
	}

	w, err := schema.DecodeLoadMore(wsel)
	if err != nil {
		e.logger.Warn("skipping malformed load-more widget", zap.Error(err))
		return
	}
	plan := widget.PlanLoadMore(w)
	if plan.Exhausted {
		wsel.SetAttr("hidden", "hidden")
		wsel.SetAttr("disabled", "disabled")
		return
	}

	node := wsel.Get(0)
	e.bindClick(node, func() {
		region.AppendHtml(`<span class="` + schema.SpinnerClass + `"></span>`)
		params.Merge(region, map[string]string{
			schema.ParamOffset: strconv.Itoa(plan.NextOffset),
			schema.ParamLimit:  strconv.Itoa(plan.NextLimit),
		})
		// The widget instance is stale once the offset moves; a fresh one
		// arrives with the appended markup.
		e.unbind(node)
		wsel.Remove()
		e.recompute(region)
		e.fetch(region, schema.ActionAppend)
	})

	if w.Trigger == schema.TriggerVisibility {
		// Reuse the click path instead of fetching directly: a one-shot
		// observer that synthesizes the click.
		e.viewport.Observe(wsel, func() {
			e.post(func() { e.fire(node) })
		})
	}

	// Keep the widget below the content it extends.
	region.AppendSelection(wsel)
}
