package renderstub

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
	"finitefield.org/hanko-fragments/internal/fragment/schema"
	"finitefield.org/hanko-fragments/internal/fragment/testutil"
)

func testService() *Service {
	items := make([]Item, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, Item{
			Title: fmt.Sprintf("Item %02d", i),
			Body:  fmt.Sprintf("Body *%d*", i),
		})
	}
	items[2].Title = "Seal Item 03"
	items[7].Title = "Seal Item 08"
	return New(zap.NewNop(), map[string][]Item{"items": items})
}

func render(t *testing.T, svc *Service, content string) string {
	t.Helper()
	out, err := svc.Render(context.Background(), renderclient.Request{Content: content})
	require.NoError(t, err)
	return out
}

func TestRenderMarkdownFallback(t *testing.T) {
	t.Parallel()

	out := render(t, testService(), "Hello **Alice**")
	require.Contains(t, out, "<strong>Alice</strong>")
}

func TestRenderListSlice(t *testing.T) {
	t.Parallel()

	out := render(t, testService(), "list=items&offset=5&limit=3")
	doc := testutil.ParseHTML(t, out)

	articles := doc.Find("article.fragment-item")
	require.Equal(t, 3, articles.Length())
	require.Equal(t, "Item 06", articles.First().Find("h3").Text())
	require.Equal(t, "Item 08", articles.Last().Find("h3").Text())
	require.Contains(t, out, "<em>6</em>")
}

func TestRenderListQueryFilter(t *testing.T) {
	t.Parallel()

	out := render(t, testService(), "list=items&q=seal")
	doc := testutil.ParseHTML(t, out)
	require.Equal(t, 2, doc.Find("article.fragment-item").Length())
}

func TestRenderListUnknown(t *testing.T) {
	t.Parallel()

	_, err := testService().Render(context.Background(), renderclient.Request{Content: "list=nope"})
	require.Error(t, err)
}

func TestRenderListInducedFailure(t *testing.T) {
	t.Parallel()

	_, err := testService().Render(context.Background(), renderclient.Request{Content: "list=items&fail=1"})
	require.Error(t, err)
}

func TestRenderListPaginationWidget(t *testing.T) {
	t.Parallel()

	out := render(t, testService(), "list=items&offset=10&limit=5&widget=pagination&widget_id=pager&max_pages=3")
	doc := testutil.ParseHTML(t, out)

	w := doc.Find("#pager")
	require.Equal(t, 1, w.Length())
	require.Equal(t, "25", w.AttrOr(schema.AttrTotal, ""))
	require.Equal(t, "5", w.AttrOr(schema.AttrLimit, ""))
	require.Equal(t, "10", w.AttrOr(schema.AttrOffset, ""))
	require.Equal(t, "3", w.AttrOr(schema.AttrMaxPages, ""))
}

func TestRenderListLoadMoreWidget(t *testing.T) {
	t.Parallel()

	out := render(t, testService(), "list=items&offset=0&limit=10&widget=loadmore&widget_id=more&widget_trigger=visibility")
	doc := testutil.ParseHTML(t, out)

	w := doc.Find("#more")
	require.Equal(t, 1, w.Length())
	require.Equal(t, "25", w.AttrOr(schema.AttrTotal, ""))
	require.Equal(t, "0", w.AttrOr(schema.AttrOffsetPrev, ""))
	require.Equal(t, "10", w.AttrOr(schema.AttrLimitPrev, ""))
	require.Equal(t, "visibility", w.AttrOr(schema.AttrTrigger, ""))
}

func TestWidgetTotalTracksFilter(t *testing.T) {
	t.Parallel()

	out := render(t, testService(), "list=items&q=seal&widget=pagination&widget_id=pager")
	doc := testutil.ParseHTML(t, out)
	require.Equal(t, "2", doc.Find("#pager").AttrOr(schema.AttrTotal, ""))
}
