// Package organize is the core entry point: parse, classify, render,
// reassemble, compare. It is a pure synchronous transformation over
// in-memory text, with no I/O and no shared state, safe to call
// concurrently for different files with one shared read-only Config.
package organize

import (
	"strings"

	"github.com/agentic-research/tsorg/api"
	"github.com/agentic-research/tsorg/internal/parse"
	"github.com/agentic-research/tsorg/internal/policy"
	"github.com/agentic-research/tsorg/internal/render"
)

// Result is the outcome of one organize call. Output always holds the
// full text; Changed is true only on a byte-level difference and is the
// sole gate callers use before writing.
type Result struct {
	Changed bool
	Output  string
}

// Organize reorganizes one file's declarations into the canonical layout
// the configuration mandates. Fails with *parse.ParseError on invalid
// input; no partial output is ever produced.
func Organize(path, source string, cfg *api.Config) (Result, error) {
	unit, err := parse.Parse(path, source)
	if err != nil {
		return Result{}, err
	}
	if len(unit.Decls) == 0 {
		return Result{Changed: false, Output: source}, nil
	}

	out := assemble(unit, cfg)
	return Result{Changed: out != source, Output: out}, nil
}

func assemble(unit *parse.SourceUnit, cfg *api.Config) string {
	secs := policy.Assign(unit.Decls, cfg.Sections)
	rsecs := make([]render.Section, 0, len(secs))
	for _, s := range secs {
		rs := render.Section{Label: s.Label}
		for _, d := range s.Entries {
			rs.Entries = append(rs.Entries, declText(d, cfg))
		}
		rsecs = append(rsecs, rs)
	}

	var sb strings.Builder
	if unit.Prefix != "" {
		sb.WriteString(unit.Prefix)
		sb.WriteString("\n\n")
	}
	sb.WriteString(render.Sections(rsecs, ""))
	if unit.Trailing != "" {
		sb.WriteString("\n\n")
		sb.WriteString(unit.Trailing)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// declText renders one declaration. A class body is substituted with its
// recursively organized member sections between the original braces; any
// other declaration is emitted verbatim.
func declText(d *parse.Declaration, cfg *api.Config) string {
	if d.Kind != api.KindClass || len(d.Members) == 0 || len(cfg.MemberSections) == 0 {
		return d.Text
	}

	secs := policy.Assign(d.Members, cfg.MemberSections)
	rsecs := make([]render.Section, 0, len(secs))
	for _, s := range secs {
		rs := render.Section{Label: s.Label}
		for _, m := range s.Entries {
			rs.Entries = append(rs.Entries, m.Text)
		}
		rsecs = append(rsecs, rs)
	}

	// Marker indentation follows the first rendered member, which is
	// stable across reruns because the policy order is.
	indent := "  "
	if len(rsecs) > 0 && len(rsecs[0].Entries) > 0 {
		indent = leadingIndent(rsecs[0].Entries[0])
	}

	var sb strings.Builder
	sb.WriteString(d.Head)
	sb.WriteByte('\n')
	sb.WriteString(render.Sections(rsecs, indent))
	if d.BodyTrailing != "" {
		sb.WriteString("\n\n")
		sb.WriteString(d.BodyTrailing)
	}
	sb.WriteByte('\n')
	sb.WriteString(closingIndent(d.Head))
	sb.WriteString(d.Tail)
	return sb.String()
}

func leadingIndent(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return text[:i]
		}
	}
	return text
}

// closingIndent aligns the closing brace with the line that opened the
// class body.
func closingIndent(head string) string {
	line := head
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		line = head[i+1:]
	}
	return leadingIndent(line)
}
