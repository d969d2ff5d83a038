package widget

import "finitefield.org/hanko-fragments/internal/fragment/schema"

// LoadMorePlan is the next navigation step computed from a load-more widget.
type LoadMorePlan struct {
	NextOffset int
	NextLimit  int
	// Exhausted is set when the previous window already reached the end of
	// the result set; the widget must be hidden and left unbound.
	Exhausted bool
}

// PlanLoadMore derives the next offset/limit from the widget configuration.
func PlanLoadMore(w schema.LoadMoreWidget) LoadMorePlan {
	plan := LoadMorePlan{
		NextOffset: w.PrevOffset + w.PrevLimit,
		NextLimit:  w.NextLimit,
	}
	if plan.NextLimit <= 0 {
		plan.NextLimit = w.PrevLimit
	}
	plan.Exhausted = plan.NextOffset >= w.Total
	return plan
}
