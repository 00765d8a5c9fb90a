// Package policy classifies declarations and members into ordered
// sections. Classification walks the configured section definitions in
// order; the first matching definition wins, and entries matching none
// fall into a fixed trailing fallback section so nothing is ever dropped.
package policy

import (
	"sort"
	"strings"

	"github.com/agentic-research/tsorg/api"
)

// FallbackLabel names the trailing section for entries no definition claims.
const FallbackLabel = "Other"

// Entry is the classification surface shared by declarations and members.
type Entry interface {
	EntryKind() string
	EntryName() string
	EntryAccess() string
	EntryStatic() bool
}

// Section is a labeled, ordered bucket of classified entries.
type Section[T Entry] struct {
	Label   string
	Entries []T
}

// Assign distributes entries over the ordered section definitions.
// Empty sections are omitted. Within a section marked Alphabetical,
// entries sort by name with an ordinal comparison; ties keep their
// original relative order, which makes the assignment deterministic
// and the whole transformation idempotent.
func Assign[T Entry](entries []T, defs []api.SectionDef) []Section[T] {
	buckets := make([][]T, len(defs)+1)
	for _, e := range entries {
		idx := len(defs) // fallback
		for i, d := range defs {
			if d.Matches(e.EntryKind(), e.EntryAccess(), e.EntryStatic()) {
				idx = i
				break
			}
		}
		buckets[idx] = append(buckets[idx], e)
	}

	var out []Section[T]
	for i, d := range defs {
		if len(buckets[i]) == 0 {
			continue
		}
		sec := Section[T]{Label: d.Label, Entries: buckets[i]}
		if d.Alphabetical {
			sort.SliceStable(sec.Entries, func(a, b int) bool {
				return strings.Compare(sec.Entries[a].EntryName(), sec.Entries[b].EntryName()) < 0
			})
		}
		out = append(out, sec)
	}
	// the fallback keeps original order and always renders last
	if rest := buckets[len(defs)]; len(rest) > 0 {
		out = append(out, Section[T]{Label: FallbackLabel, Entries: rest})
	}
	return out
}
