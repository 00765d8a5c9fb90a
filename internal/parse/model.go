// Package parse builds a structural model of a TypeScript source file.
// The model keeps every declaration's exact original text (with its
// attached comments and decorators) so unaffected bytes are copied
// verbatim instead of re-serialized.
package parse

import "fmt"

// SourceUnit is the whole file: an untouched prefix (imports and
// file-header comments), the ordered top-level declarations, and any
// trailing loose text.
type SourceUnit struct {
	Path     string
	Prefix   string
	Decls    []*Declaration
	Trailing string
}

// Declaration is one top-level construct. Text is the verbatim block
// including attached leading comments and decorators, markers stripped.
type Declaration struct {
	Kind     string // api.Kind* value, "" when uncategorizable
	Name     string
	Exported bool
	Text     string

	// Class-only fields. When Members is non-empty the body can be
	// substituted with rendered member sections: Head runs from the start
	// of the block through the opening brace, Tail from the closing brace
	// to the end of the block. BodyTrailing holds loose comments at the
	// end of the body; they render after the last member section so they
	// never attach to a member that policy ordering could move.
	Members      []*Member
	Head         string
	Tail         string
	BodyTrailing string
}

// Member is a class element: constructor, property, accessor, or method.
type Member struct {
	Kind   string
	Name   string
	Access string // api.Access* value; public when no modifier is written
	Static bool
	Text   string
}

// ParseError reports syntactically invalid input. No model and no
// partial output are produced alongside it.
type ParseError struct {
	Path   string
	Line   uint32 // 0-indexed
	Column uint32 // 0-indexed
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error", e.Path, e.Line+1, e.Column+1)
}

// Classification accessors shared with the policy engine.

func (d *Declaration) EntryKind() string   { return d.Kind }
func (d *Declaration) EntryName() string   { return d.Name }
func (d *Declaration) EntryAccess() string { return "" }
func (d *Declaration) EntryStatic() bool   { return false }

func (m *Member) EntryKind() string   { return m.Kind }
func (m *Member) EntryName() string   { return m.Name }
func (m *Member) EntryAccess() string { return m.Access }
func (m *Member) EntryStatic() bool   { return m.Static }
