package schema

import (
	"html"
	"sort"
	"strings"
)

// AttrString serializes an attribute map to its in-tag form, sorted by name
// for deterministic output, with a leading space when non-empty.
func AttrString(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[name]))
		b.WriteByte('"')
	}
	return b.String()
}
