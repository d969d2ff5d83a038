// Package dom carries small helpers over goquery used across the engine.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseString parses an HTML payload into a mutable document.
func ParseString(payload string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(payload))
}

// ByID selects the first element whose id attribute equals id exactly.
// Matching by attribute value avoids CSS selector escaping issues with ids
// that carry dots or colons. The returned selection may be empty.
func ByID(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == id
	}).First()
}

// OuterHTML serializes the selection including its own tags.
func OuterHTML(sel *goquery.Selection) (string, error) {
	return goquery.OuterHtml(sel)
}
