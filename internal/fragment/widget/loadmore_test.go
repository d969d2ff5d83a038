package widget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-fragments/internal/fragment/schema"
)

func TestPlanLoadMore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    schema.LoadMoreWidget
		want LoadMorePlan
	}{
		{
			name: "more pages remain",
			w:    schema.LoadMoreWidget{Total: 100, PrevOffset: 0, PrevLimit: 20},
			want: LoadMorePlan{NextOffset: 20, NextLimit: 20},
		},
		{
			name: "next window lands exactly on total",
			w:    schema.LoadMoreWidget{Total: 100, PrevOffset: 80, PrevLimit: 20},
			want: LoadMorePlan{NextOffset: 100, NextLimit: 20, Exhausted: true},
		},
		{
			name: "one item past the last window",
			w:    schema.LoadMoreWidget{Total: 101, PrevOffset: 80, PrevLimit: 20},
			want: LoadMorePlan{NextOffset: 100, NextLimit: 20},
		},
		{
			name: "explicit next limit",
			w:    schema.LoadMoreWidget{Total: 100, PrevOffset: 20, PrevLimit: 20, NextLimit: 50},
			want: LoadMorePlan{NextOffset: 40, NextLimit: 50},
		},
		{
			name: "empty result set",
			w:    schema.LoadMoreWidget{Total: 0, PrevOffset: 0, PrevLimit: 20},
			want: LoadMorePlan{NextOffset: 20, NextLimit: 20, Exhausted: true},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, PlanLoadMore(tt.w))
		})
	}
}
