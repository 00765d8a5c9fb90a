// Package render turns ordered sections back into source text. Marker
// comments are synthesized fresh on every run, so the counts they carry
// always equal the number of entries between header and footer.
package render

import (
	"strings"

	"github.com/agentic-research/tsorg/internal/marker"
)

// Section is a renderable bucket: a label plus entry text blocks in
// final policy order. Entry text is emitted verbatim.
type Section struct {
	Label   string
	Entries []string
}

// Sections renders the non-empty sections, separated by one blank line.
// indent prefixes the marker lines; entry blocks carry their own
// indentation already.
func Sections(secs []Section, indent string) string {
	var sb strings.Builder
	wrote := false
	for _, s := range secs {
		if len(s.Entries) == 0 {
			continue
		}
		if wrote {
			sb.WriteString("\n\n")
		}
		wrote = true
		sb.WriteString(indent)
		sb.WriteString(marker.Header(s.Label, len(s.Entries)))
		sb.WriteByte('\n')
		for j, e := range s.Entries {
			if j > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(strings.TrimRight(e, " \t\n"))
		}
		sb.WriteByte('\n')
		sb.WriteString(indent)
		sb.WriteString(marker.Footer)
	}
	return sb.String()
}
