// Package renderstub implements a small in-process rendering service for the
// demo binary and the end-to-end tests. It understands two content forms:
// a query-string directive that renders a slice of a named dataset together
// with an optional navigation widget, and plain markdown for everything
// else.
package renderstub

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
	"finitefield.org/hanko-fragments/internal/fragment/schema"
)

// Directive keys understood in list content.
const (
	keyList          = "list"
	keyQuery         = "q"
	keyFail          = "fail"
	keyWidget        = "widget"
	keyWidgetID      = "widget_id"
	keyMaxPages      = "max_pages"
	keyWidgetTrigger = "widget_trigger"

	widgetPagination = "pagination"
	widgetLoadMore   = "loadmore"

	defaultLimit = 10
)

// Item is one entry of a renderable dataset. The body is markdown.
type Item struct {
	Title string
	Body  string
}

// Service implements renderclient.Service over fixed datasets.
type Service struct {
	logger *zap.Logger
	md     goldmark.Markdown
	lists  map[string][]Item
}

// New constructs a stub service over the given datasets.
func New(logger *zap.Logger, lists map[string][]Item) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger: logger,
		md:     goldmark.New(),
		lists:  lists,
	}
}

// Render implements renderclient.Service.
func (s *Service) Render(_ context.Context, req renderclient.Request) (string, error) {
	content := strings.TrimSpace(req.Content)
	if vals, err := url.ParseQuery(content); err == nil && vals.Get(keyList) != "" {
		return s.renderList(vals)
	}
	return s.renderMarkdown(content)
}

func (s *Service) renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("renderstub: markdown: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) renderList(vals url.Values) (string, error) {
	if vals.Get(keyFail) != "" {
		return "", fmt.Errorf("renderstub: induced failure")
	}

	name := vals.Get(keyList)
	items, ok := s.lists[name]
	if !ok {
		return "", fmt.Errorf("renderstub: unknown list %q", name)
	}

	if q := vals.Get(keyQuery); q != "" {
		filtered := items[:0:0]
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Title), strings.ToLower(q)) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	total := len(items)
	offset := intParam(vals, schema.ParamOffset, 0)
	limit := intParam(vals, schema.ParamLimit, defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	var b strings.Builder
	for i := offset; i < total && i < offset+limit; i++ {
		body, err := s.renderMarkdown(items[i].Body)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, `<article class="fragment-item"><h3>%s</h3>%s</article>`,
			html.EscapeString(items[i].Title), body)
	}

	s.writeWidget(&b, vals, total, offset, limit)

	s.logger.Debug("rendered list slice",
		zap.String("list", name),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
		zap.Int("total", total))
	return b.String(), nil
}

// writeWidget appends the navigation widget container requested by the
// directive. The engine reads the configuration back out of these attributes
// and renders the widget's innards itself.
func (s *Service) writeWidget(b *strings.Builder, vals url.Values, total, offset, limit int) {
	id := vals.Get(keyWidgetID)
	if id == "" {
		return
	}
	switch vals.Get(keyWidget) {
	case widgetPagination:
		w := schema.PaginationWidget{
			Total:    total,
			Limit:    limit,
			Offset:   offset,
			MaxPages: intParam(vals, keyMaxPages, 0),
		}
		fmt.Fprintf(b, `<div id="%s" class="fragment-pagination-host"%s></div>`,
			html.EscapeString(id), schema.AttrString(w.AttrMap()))
	case widgetLoadMore:
		trigger := schema.Trigger(vals.Get(keyWidgetTrigger))
		if !trigger.Valid() {
			trigger = schema.TriggerClick
		}
		w := schema.LoadMoreWidget{
			Total:      total,
			PrevOffset: offset,
			PrevLimit:  limit,
			Trigger:    trigger,
		}
		fmt.Fprintf(b, `<div id="%s" class="fragment-loadmore"%s>Load more</div>`,
			html.EscapeString(id), schema.AttrString(w.AttrMap()))
	}
}

func intParam(vals url.Values, name string, fallback int) int {
	raw := vals.Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
