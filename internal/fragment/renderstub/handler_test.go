package renderstub

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
)

func TestHandlerRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(Handler(testService(), nil))
	defer srv.Close()

	c := renderclient.New(srv.URL)
	out, err := c.Render(context.Background(), renderclient.Request{
		ContentModel: renderclient.ContentModelWikitext,
		PageName:     "Catalogue",
		Content:      "list=items&offset=0&limit=2",
	})
	require.NoError(t, err)
	require.Contains(t, out, "Item 01")
	require.Contains(t, out, "Item 02")
	require.NotContains(t, out, "Item 04")
}

func TestHandlerFailureMapsToClientError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(Handler(testService(), nil))
	defer srv.Close()

	c := renderclient.New(srv.URL)
	_, err := c.Render(context.Background(), renderclient.Request{Content: "list=items&fail=1"})
	require.ErrorIs(t, err, renderclient.ErrRenderFailed)
}
