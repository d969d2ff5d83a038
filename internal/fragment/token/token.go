// Package token implements substitution of {{{$name|default}}} markers in a
// region's markup template.
package token

import (
	"net/url"
	"regexp"
	"strings"
)

// pattern matches one substitution marker. Group 1 is the lookup key, group 2
// the optional default following the first pipe.
var pattern = regexp.MustCompile(`\{\{\{\$([^{}|]*)(?:\|([^{}]*))?\}\}\}`)

// Source resolves a marker key to its substitution value. The second return
// reports whether the key was present; absent keys fall back to the marker's
// declared default.
type Source interface {
	Resolve(key string) (string, bool)
}

// QuerySource resolves keys against URL query values. All values bound to a
// key are joined with the separator, so multi-valued form fields survive the
// round trip through the query string.
type QuerySource struct {
	Values    url.Values
	Separator string
}

// Resolve implements Source.
func (s QuerySource) Resolve(key string) (string, bool) {
	vals := s.Values[key]
	if len(vals) == 0 {
		return "", false
	}
	sep := s.Separator
	if sep == "" {
		sep = ";"
	}
	return strings.Join(vals, sep), true
}

// ParamsSource resolves keys against the region's JSON parameter map. Values
// here are already joined, so lookup is single-valued.
type ParamsSource map[string]string

// Resolve implements Source.
func (s ParamsSource) Resolve(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Substitute expands every marker in template using src. A marker whose key
// is absent resolves to its default, or the empty string without one; markers
// are never left verbatim. Substituted values are not re-scanned, so a value
// containing marker syntax is emitted as-is.
func Substitute(template string, src Source) string {
	return pattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := pattern.FindStringSubmatch(match)
		if v, ok := src.Resolve(groups[1]); ok {
			return v
		}
		return groups[2]
	})
}
