// Package marker owns the section marker comment format. Markers are
// synthesized on every render and stripped during parsing, so counts can
// never go stale.
package marker

import (
	"fmt"
	"regexp"
	"strings"
)

// Header returns a section header marker, e.g. "// #region Properties (2)".
func Header(label string, count int) string {
	return fmt.Sprintf("// #region %s (%d)", label, count)
}

// Footer is the closing marker matching every header.
const Footer = "// #endregion"

var markerRe = regexp.MustCompile(`^//\s*#(region\b|endregion\b)`)

// IsMarker reports whether a source line (indentation allowed) is a
// section header or footer marker.
func IsMarker(line string) bool {
	return markerRe.MatchString(strings.TrimSpace(line))
}

// StripLines removes marker lines from a block of text. Canonical entry
// text never contains markers, so on already-organized input this is the
// identity.
func StripLines(text string) string {
	if !strings.Contains(text, "#region") && !strings.Contains(text, "#endregion") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if !IsMarker(l) {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
