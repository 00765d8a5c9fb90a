package parse

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/agentic-research/tsorg/api"
	"github.com/agentic-research/tsorg/internal/marker"
)

// languageFor picks the grammar by extension; .tsx needs the JSX-aware variant.
func languageFor(path string) *sitter.Language {
	if strings.EqualFold(filepath.Ext(path), ".tsx") {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// Parse builds a SourceUnit from source text, or fails with *ParseError
// when the text is not valid TypeScript. Pure function of its input.
func Parse(path string, source string) (*SourceUnit, error) {
	src := []byte(source)
	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := &ParseError{Path: path}
		if errNode := firstError(root); errNode != nil {
			perr.Line = errNode.StartPoint().Row
			perr.Column = errNode.StartPoint().Column
		}
		return nil, perr
	}

	b := &builder{src: src, path: path}
	return b.build(root), nil
}

// firstError does a depth-first search for the first ERROR or MISSING node.
func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}

type builder struct {
	src  []byte
	path string
}

func (b *builder) build(root *sitter.Node) *SourceUnit {
	unit := &SourceUnit{Path: b.path}

	var pending []*sitter.Node // comments and decorators awaiting a declaration
	prefixEnd := uint32(0)
	prefixOpen := true

	n := int(root.NamedChildCount())
	for i := 0; i < n; i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "comment":
			if marker.IsMarker(b.nodeText(child)) {
				continue // regenerated on render
			}
			pending = append(pending, child)
		case "decorator":
			pending = append(pending, child)
		case "hash_bang_line":
			if prefixOpen {
				pending = nil
				prefixEnd = b.extendEnd(child.EndByte())
				continue
			}
			unit.Decls = append(unit.Decls, b.declaration(child, pending))
			pending = nil
		case "import_statement":
			if prefixOpen {
				// header comments flow into the contiguous prefix range
				pending = nil
				prefixEnd = b.extendEnd(child.EndByte())
				continue
			}
			unit.Decls = append(unit.Decls, b.declaration(child, pending))
			pending = nil
		case "expression_statement":
			if prefixOpen && isDirective(b.nodeText(child)) {
				pending = nil
				prefixEnd = b.extendEnd(child.EndByte())
				continue
			}
			if prefixOpen {
				pending = b.splitHeader(pending, child, &prefixEnd)
				prefixOpen = false
			}
			unit.Decls = append(unit.Decls, b.declaration(child, pending))
			pending = nil
		default:
			if prefixOpen {
				pending = b.splitHeader(pending, child, &prefixEnd)
				prefixOpen = false
			}
			unit.Decls = append(unit.Decls, b.declaration(child, pending))
			pending = nil
		}
	}

	if len(pending) > 0 && len(unit.Decls) > 0 {
		start := b.lineStart(pending[0].StartByte())
		unit.Trailing = marker.StripLines(strings.TrimRight(string(b.src[start:]), " \t\n"))
	}

	unit.Prefix = strings.TrimRight(string(b.src[:prefixEnd]), " \t\n")
	return unit
}

// isDirective recognizes prologue directives like "use strict", which must
// stay ahead of every declaration.
func isDirective(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, `"use `) || strings.HasPrefix(t, `'use `)
}

// splitHeader runs once, at the first declaration: pending comments up to
// the last blank-line gap are file-header material and stay in the
// untouched prefix; everything after the gap attaches to the declaration.
func (b *builder) splitHeader(pending []*sitter.Node, decl *sitter.Node, prefixEnd *uint32) []*sitter.Node {
	cut := -1
	for i, p := range pending {
		if p.Type() != "comment" {
			continue
		}
		next := decl
		if i+1 < len(pending) {
			next = pending[i+1]
		}
		if next.StartPoint().Row > p.EndPoint().Row+1 {
			cut = i
		}
	}
	if cut < 0 {
		return pending
	}
	*prefixEnd = b.extendEnd(pending[cut].EndByte())
	return pending[cut+1:]
}

func (b *builder) declaration(node *sitter.Node, pending []*sitter.Node) *Declaration {
	start := node.StartByte()
	if len(pending) > 0 {
		start = pending[0].StartByte()
	}
	start = b.lineStart(start)
	end := b.extendEnd(node.EndByte())

	decl := &Declaration{Text: marker.StripLines(string(b.src[start:end]))}

	inner := node
	if node.Type() == "export_statement" {
		decl.Exported = true
		if d := node.ChildByFieldName("declaration"); d != nil {
			inner = d
		}
	}

	switch inner.Type() {
	case "class_declaration", "abstract_class_declaration":
		decl.Kind = api.KindClass
	case "interface_declaration":
		decl.Kind = api.KindInterface
	case "enum_declaration":
		decl.Kind = api.KindEnum
	case "type_alias_declaration":
		decl.Kind = api.KindType
	case "function_declaration", "generator_function_declaration", "function_signature":
		decl.Kind = api.KindFunction
	case "lexical_declaration", "variable_declaration":
		decl.Kind = api.KindVariable
	}
	decl.Name = b.declName(inner)

	if decl.Kind == api.KindClass {
		b.classBody(decl, inner, start, end)
	}
	return decl
}

// classBody records the pieces needed to substitute a class body with
// rendered member sections while keeping the signature line and brace
// structure intact. Empty bodies stay verbatim.
func (b *builder) classBody(decl *Declaration, class *sitter.Node, start, end uint32) {
	body := class.ChildByFieldName("body")
	if body == nil {
		return
	}
	members, trailing := b.members(body)
	if len(members) == 0 {
		return
	}
	decl.Members = members
	decl.BodyTrailing = trailing
	decl.Head = marker.StripLines(string(b.src[start : body.StartByte()+1]))
	decl.Tail = string(b.src[body.EndByte()-1 : end])
}

func (b *builder) members(body *sitter.Node) ([]*Member, string) {
	var out []*Member
	var pending []*sitter.Node

	n := int(body.NamedChildCount())
	for i := 0; i < n; i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "comment":
			if marker.IsMarker(b.nodeText(child)) {
				continue
			}
			pending = append(pending, child)
		case "decorator":
			pending = append(pending, child)
		default:
			out = append(out, b.member(child, pending))
			pending = nil
		}
	}

	// loose comments at the end of the body come back as a separate
	// trailing block; fusing them into the last input member would let
	// policy ordering carry them to a different spot on the next run
	trailing := ""
	if len(pending) > 0 && len(out) > 0 {
		start := b.lineStart(pending[0].StartByte())
		end := b.extendEnd(pending[len(pending)-1].EndByte())
		trailing = marker.StripLines(strings.TrimRight(string(b.src[start:end]), " \t"))
	}
	return out, trailing
}

func (b *builder) member(node *sitter.Node, pending []*sitter.Node) *Member {
	start := node.StartByte()
	if len(pending) > 0 {
		start = pending[0].StartByte()
	}
	start = b.lineStart(start)
	end := b.extendEnd(node.EndByte())

	m := &Member{
		Access: api.AccessPublic,
		Text:   marker.StripLines(string(b.src[start:end])),
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode != nil {
		m.Name = b.nodeText(nameNode)
	}

	// modifier tokens sit before the name
	limit := node.EndByte()
	if nameNode != nil {
		limit = nameNode.StartByte()
	}
	isAccessor := false
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.StartByte() >= limit {
			break
		}
		switch c.Type() {
		case "accessibility_modifier":
			m.Access = b.nodeText(c)
		case "static":
			m.Static = true
		case "get", "set":
			isAccessor = true
		}
	}

	switch node.Type() {
	case "method_definition", "abstract_method_signature", "method_signature":
		switch {
		case m.Name == "constructor":
			m.Kind = api.KindConstructor
		case isAccessor:
			m.Kind = api.KindAccessor
		default:
			m.Kind = api.KindMethod
		}
	case "public_field_definition", "field_definition", "property_signature":
		m.Kind = api.KindProperty
	}
	// index signatures, static blocks and the like keep Kind "" and land
	// in the fallback section
	return m
}

func (b *builder) declName(n *sitter.Node) string {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "variable_declarator" {
				if name := c.ChildByFieldName("name"); name != nil {
					return b.nodeText(name)
				}
			}
		}
	default:
		if name := n.ChildByFieldName("name"); name != nil {
			return b.nodeText(name)
		}
	}
	return ""
}

func (b *builder) nodeText(n *sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

// lineStart expands a byte offset back to the start of its line when only
// indentation precedes it, so entry blocks keep their original indent.
func (b *builder) lineStart(pos uint32) uint32 {
	i := pos
	for i > 0 && b.src[i-1] != '\n' {
		if b.src[i-1] != ' ' && b.src[i-1] != '\t' {
			return pos
		}
		i--
	}
	return i
}

// extendEnd stretches a span over a trailing semicolon and line comment so
// they travel with their declaration. Stops before any real code.
func (b *builder) extendEnd(pos uint32) uint32 {
	i := pos
	last := pos
	n := uint32(len(b.src))
	for i < n {
		switch b.src[i] {
		case ' ', '\t':
			i++
		case ';':
			i++
			last = i
		case '\n':
			return i
		case '/':
			if i+1 < n && b.src[i+1] == '/' {
				for i < n && b.src[i] != '\n' {
					i++
				}
				return i
			}
			return last
		default:
			return last
		}
	}
	return i
}
