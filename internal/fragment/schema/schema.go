// Package schema defines the data-attribute wire format shared between the
// server-side markup emitter and the client engine. The attribute set is the
// contract both sides depend on, so changes here are breaking changes.
package schema

import (
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// Trigger enumerates the event classes that initiate a fetch for a region.
type Trigger string

const (
	// TriggerImmediate fetches once as soon as the page is hydrated.
	TriggerImmediate Trigger = "immediate"
	// TriggerVisibility fetches once when the region first becomes fully visible.
	TriggerVisibility Trigger = "visibility"
	// TriggerClick fetches on every click of the bound trigger element.
	TriggerClick Trigger = "click"
	// TriggerSubmit fetches when the bound form is submitted.
	TriggerSubmit Trigger = "submit"
)

// Valid reports whether t is one of the supported trigger modes.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerImmediate, TriggerVisibility, TriggerClick, TriggerSubmit:
		return true
	}
	return false
}

// TargetAction describes how freshly rendered markup combines with the
// region's existing content.
type TargetAction string

const (
	ActionReplace TargetAction = "replace"
	ActionAppend  TargetAction = "append"
	ActionPrepend TargetAction = "prepend"
)

// Placeholder attributes.
const (
	AttrPageName        = "data-page-name"
	AttrTrigger         = "data-trigger"
	AttrTargetAction    = "data-target-action"
	AttrTemplateModel   = "data-template-model"
	AttrRenderable      = "data-renderable"
	AttrParams          = "data-params"
	AttrValueSep        = "data-valsep"
	AttrUpdateURL       = "data-update-url"
	AttrTriggerID       = "data-trigger-id"
	AttrPaginationID    = "data-pagination-id"
	AttrPaginationClass = "data-pagination-class"
	AttrLoadMoreID      = "data-loadmore-id"
)

// Widget attributes.
const (
	AttrTotal      = "data-total"
	AttrLimit      = "data-limit"
	AttrOffset     = "data-offset"
	AttrMaxPages   = "data-max-pages"
	AttrListClass  = "data-class"
	AttrOffsetPrev = "data-offset-prev"
	AttrLimitPrev  = "data-limit-prev"
	AttrLimitNext  = "data-limit-next"
)

// Generated link attributes and indicator values.
const (
	AttrIndicator    = "data-indicator"
	AttrTargetOffset = "data-target-offset"

	IndicatorNumber   = "number"
	IndicatorSibling  = "sibling"
	IndicatorEllipsis = "ellipsis"
)

// MarkerClass tags every deferred region so hydration can locate them.
const MarkerClass = "fragment-request"

// SpinnerClass tags transient progress indicators removed after each fetch.
const SpinnerClass = "fragment-spinner"

// Reserved parameter names understood by the navigation widgets.
const (
	ParamOffset = "offset"
	ParamLimit  = "limit"
)

// DefaultValueSeparator joins multi-valued form fields when the region does
// not declare its own separator.
const DefaultValueSeparator = ";"

// Placeholder is the decoded attribute set of a deferred region.
type Placeholder struct {
	PageName        string
	Trigger         Trigger
	TargetAction    TargetAction
	TemplateModel   string
	Renderable      string
	ValueSeparator  string
	UpdateURL       bool
	TriggerID       string
	PaginationID    string
	PaginationClass string
	LoadMoreID      string
}

// DecodePlaceholder reads the region attributes from the selected element.
// Absent attributes decode to zero values; the separator falls back to
// DefaultValueSeparator.
func DecodePlaceholder(sel *goquery.Selection) Placeholder {
	p := Placeholder{
		PageName:        sel.AttrOr(AttrPageName, ""),
		Trigger:         Trigger(sel.AttrOr(AttrTrigger, "")),
		TargetAction:    TargetAction(sel.AttrOr(AttrTargetAction, string(ActionReplace))),
		TemplateModel:   sel.AttrOr(AttrTemplateModel, ""),
		Renderable:      sel.AttrOr(AttrRenderable, ""),
		ValueSeparator:  sel.AttrOr(AttrValueSep, DefaultValueSeparator),
		UpdateURL:       parseBool(sel.AttrOr(AttrUpdateURL, "")),
		TriggerID:       sel.AttrOr(AttrTriggerID, ""),
		PaginationID:    sel.AttrOr(AttrPaginationID, ""),
		PaginationClass: sel.AttrOr(AttrPaginationClass, ""),
		LoadMoreID:      sel.AttrOr(AttrLoadMoreID, ""),
	}
	if p.ValueSeparator == "" {
		p.ValueSeparator = DefaultValueSeparator
	}
	return p
}

// AttrMap encodes the placeholder back to its attribute form. Only attributes
// with meaningful values are emitted so the markup stays compact.
func (p Placeholder) AttrMap() map[string]string {
	attrs := map[string]string{
		AttrTrigger:       string(p.Trigger),
		AttrTargetAction:  string(p.TargetAction),
		AttrTemplateModel: p.TemplateModel,
		AttrRenderable:    p.Renderable,
	}
	if p.PageName != "" {
		attrs[AttrPageName] = p.PageName
	}
	if p.ValueSeparator != "" && p.ValueSeparator != DefaultValueSeparator {
		attrs[AttrValueSep] = p.ValueSeparator
	}
	if p.UpdateURL {
		attrs[AttrUpdateURL] = "true"
	}
	if p.TriggerID != "" {
		attrs[AttrTriggerID] = p.TriggerID
	}
	if p.PaginationID != "" {
		attrs[AttrPaginationID] = p.PaginationID
	}
	if p.PaginationClass != "" {
		attrs[AttrPaginationClass] = p.PaginationClass
	}
	if p.LoadMoreID != "" {
		attrs[AttrLoadMoreID] = p.LoadMoreID
	}
	return attrs
}

// PaginationWidget is the decoded configuration of a paged navigation strip.
type PaginationWidget struct {
	Total     int
	Limit     int
	Offset    int
	MaxPages  int // 0 means no cap on visible page links
	ListClass string
}

// DecodePagination reads widget configuration from the selected element.
func DecodePagination(sel *goquery.Selection) (PaginationWidget, error) {
	var w PaginationWidget
	var err error
	if w.Total, err = intAttr(sel, AttrTotal, 0); err != nil {
		return w, err
	}
	if w.Limit, err = intAttr(sel, AttrLimit, 0); err != nil {
		return w, err
	}
	if w.Offset, err = intAttr(sel, AttrOffset, 0); err != nil {
		return w, err
	}
	if w.MaxPages, err = intAttr(sel, AttrMaxPages, 0); err != nil {
		return w, err
	}
	w.ListClass = sel.AttrOr(AttrListClass, "")
	return w, nil
}

// AttrMap encodes the widget configuration to its attribute form.
func (w PaginationWidget) AttrMap() map[string]string {
	attrs := map[string]string{
		AttrTotal:  strconv.Itoa(w.Total),
		AttrLimit:  strconv.Itoa(w.Limit),
		AttrOffset: strconv.Itoa(w.Offset),
	}
	if w.MaxPages > 0 {
		attrs[AttrMaxPages] = strconv.Itoa(w.MaxPages)
	}
	if w.ListClass != "" {
		attrs[AttrListClass] = w.ListClass
	}
	return attrs
}

// LoadMoreWidget is the decoded configuration of an incremental loader.
type LoadMoreWidget struct {
	Total      int
	PrevOffset int
	PrevLimit  int
	NextLimit  int // 0 means reuse PrevLimit
	Trigger    Trigger
}

// DecodeLoadMore reads widget configuration from the selected element.
func DecodeLoadMore(sel *goquery.Selection) (LoadMoreWidget, error) {
	var w LoadMoreWidget
	var err error
	if w.Total, err = intAttr(sel, AttrTotal, 0); err != nil {
		return w, err
	}
	if w.PrevOffset, err = intAttr(sel, AttrOffsetPrev, 0); err != nil {
		return w, err
	}
	if w.PrevLimit, err = intAttr(sel, AttrLimitPrev, 0); err != nil {
		return w, err
	}
	if w.NextLimit, err = intAttr(sel, AttrLimitNext, 0); err != nil {
		return w, err
	}
	w.Trigger = Trigger(sel.AttrOr(AttrTrigger, string(TriggerClick)))
	return w, nil
}

// AttrMap encodes the widget configuration to its attribute form.
func (w LoadMoreWidget) AttrMap() map[string]string {
	attrs := map[string]string{
		AttrTotal:      strconv.Itoa(w.Total),
		AttrOffsetPrev: strconv.Itoa(w.PrevOffset),
		AttrLimitPrev:  strconv.Itoa(w.PrevLimit),
		AttrTrigger:    string(w.Trigger),
	}
	if w.NextLimit > 0 {
		attrs[AttrLimitNext] = strconv.Itoa(w.NextLimit)
	}
	return attrs
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}

func intAttr(sel *goquery.Selection, name string, fallback int) (int, error) {
	raw, ok := sel.Attr(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("schema: attribute %s=%q is not an integer", name, raw)
	}
	return n, nil
}
