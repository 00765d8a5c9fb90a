// Package fileset decides which workspace files the organizer touches.
// It is a pure predicate over workspace-relative paths; the core never
// sees it.
package fileset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Filter matches workspace-relative slash paths against include and
// exclude globs. Exclusion wins; an empty include list accepts all.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// New compiles the glob pattern lists. Patterns use '/' as separator;
// "**" crosses directories, "*" does not.
func New(include, exclude []string) (*Filter, error) {
	inc, err := compile(include)
	if err != nil {
		return nil, err
	}
	exc, err := compile(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: inc, exclude: exc}, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, p := range expand(patterns) {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// expand adds a rootless variant for "**/"-prefixed patterns so
// "**/*.ts" also matches "index.ts" at the workspace root.
func expand(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		out = append(out, p)
		if strings.HasPrefix(p, "**/") {
			out = append(out, strings.TrimPrefix(p, "**/"))
		}
	}
	return out
}

// Match reports whether the path is accepted.
func (f *Filter) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range f.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
