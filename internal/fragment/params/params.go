// Package params manages the per-region JSON parameter side-channel stored in
// the data-params attribute. It is the authoritative parameter state when the
// region is not mirroring into the page URL.
package params

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"

	"finitefield.org/hanko-fragments/internal/fragment/schema"
)

// Get returns the decoded parameter map of the selected region. A missing,
// empty, or malformed attribute yields an empty map rather than an error.
func Get(sel *goquery.Selection) map[string]string {
	raw, ok := sel.Attr(schema.AttrParams)
	if !ok || raw == "" {
		return map[string]string{}
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return map[string]string{}
	}
	return m
}

// Merge folds updates into the stored map, last write wins per key. Keys
// absent from updates are kept.
func Merge(sel *goquery.Selection, updates map[string]string) {
	m := Get(sel)
	for k, v := range updates {
		m[k] = v
	}
	Replace(sel, m)
}

// Replace persists m wholesale as the region's parameter map.
func Replace(sel *goquery.Selection, m map[string]string) {
	if m == nil {
		m = map[string]string{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		// A map[string]string cannot fail to marshal; keep the old value if it
		// somehow does.
		return
	}
	sel.SetAttr(schema.AttrParams, string(raw))
}
