package api

import (
	"fmt"
	"sort"
	"strings"
)

// Declaration and member kinds understood by the policy engine.
const (
	KindClass     = "class"
	KindInterface = "interface"
	KindEnum      = "enum"
	KindType      = "type"
	KindFunction  = "function"
	KindVariable  = "variable"

	KindConstructor = "constructor"
	KindProperty    = "property"
	KindAccessor    = "accessor"
	KindMethod      = "method"
)

// Accessibility values for class members. TypeScript defaults to public
// when no modifier is written.
const (
	AccessPublic    = "public"
	AccessProtected = "protected"
	AccessPrivate   = "private"
)

var fileKinds = map[string]bool{
	KindClass: true, KindInterface: true, KindEnum: true,
	KindType: true, KindFunction: true, KindVariable: true,
}

var memberKinds = map[string]bool{
	KindConstructor: true, KindProperty: true, KindAccessor: true, KindMethod: true,
}

var accessValues = map[string]bool{
	AccessPublic: true, AccessProtected: true, AccessPrivate: true,
}

// SectionDef is one ordered section definition: a predicate over
// (kind, accessibility, static) plus an optional alphabetical sort.
type SectionDef struct {
	// Label is the section heading rendered into the marker comment.
	Label string `json:"label" yaml:"label"`
	// Kinds matched by this section. Empty matches nothing.
	Kinds []string `json:"kinds" yaml:"kinds"`
	// Access restricts matching to the given accessibilities (member
	// sections only). Empty matches any.
	Access []string `json:"access,omitempty" yaml:"access,omitempty"`
	// Static restricts matching to static (true) or instance (false)
	// members. Nil matches either.
	Static *bool `json:"static,omitempty" yaml:"static,omitempty"`
	// Alphabetical sorts entries by name with an ordinal comparison.
	// Ties keep original order.
	Alphabetical bool `json:"alphabetical,omitempty" yaml:"alphabetical,omitempty"`
}

// Matches reports whether an entry with the given classification falls
// into this section.
func (s SectionDef) Matches(kind, access string, static bool) bool {
	found := false
	for _, k := range s.Kinds {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(s.Access) > 0 {
		ok := false
		for _, a := range s.Access {
			if a == access {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if s.Static != nil && *s.Static != static {
		return false
	}
	return true
}

// Config is the resolved organizer configuration. It is immutable once
// constructed and safe to share across concurrent organize calls.
type Config struct {
	// Sections classify file-level declarations, in order; first match wins.
	Sections []SectionDef `json:"sections" yaml:"sections"`
	// MemberSections classify class members. An empty list leaves class
	// bodies untouched.
	MemberSections []SectionDef `json:"memberSections" yaml:"memberSections"`
	// Include/Exclude are workspace-relative glob patterns consumed by the
	// host's file-set filter, never by the core.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// ConfigurationError reports a structurally invalid section definition.
// It is surfaced before any file is processed.
type ConfigurationError struct {
	Section string // section label, or "" when the label itself is missing
	Detail  string
}

func (e *ConfigurationError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Detail)
	}
	return fmt.Sprintf("invalid configuration: section %q: %s", e.Section, e.Detail)
}

// Validate checks the section vocabulary against the known kinds and
// accessibility values.
func (c *Config) Validate() error {
	if err := validateDefs(c.Sections, fileKinds, "sections"); err != nil {
		return err
	}
	return validateDefs(c.MemberSections, memberKinds, "memberSections")
}

func validateDefs(defs []SectionDef, known map[string]bool, where string) error {
	for _, d := range defs {
		if d.Label == "" {
			return &ConfigurationError{Detail: fmt.Sprintf("%s: section without label", where)}
		}
		if len(d.Kinds) == 0 {
			return &ConfigurationError{Section: d.Label, Detail: "no kinds listed"}
		}
		for _, k := range d.Kinds {
			if !known[k] {
				return &ConfigurationError{
					Section: d.Label,
					Detail:  fmt.Sprintf("unrecognized kind %q (known: %s)", k, knownList(known)),
				}
			}
		}
		for _, a := range d.Access {
			if !accessValues[a] {
				return &ConfigurationError{
					Section: d.Label,
					Detail:  fmt.Sprintf("unrecognized access %q", a),
				}
			}
		}
	}
	return nil
}

func knownList(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func boolPtr(b bool) *bool { return &b }

// DefaultConfig is the layout applied when no configuration file is found.
func DefaultConfig() *Config {
	return &Config{
		Sections: []SectionDef{
			{Label: "Types", Kinds: []string{KindInterface, KindType, KindEnum}},
			{Label: "Variables", Kinds: []string{KindVariable}},
			{Label: "Functions", Kinds: []string{KindFunction}},
			{Label: "Classes", Kinds: []string{KindClass}},
		},
		MemberSections: []SectionDef{
			{Label: "Static Properties", Kinds: []string{KindProperty}, Static: boolPtr(true)},
			{Label: "Properties", Kinds: []string{KindProperty}, Static: boolPtr(false)},
			{Label: "Constructors", Kinds: []string{KindConstructor}},
			{Label: "Accessors", Kinds: []string{KindAccessor}},
			{Label: "Static Methods", Kinds: []string{KindMethod}, Static: boolPtr(true)},
			{Label: "Public Methods", Kinds: []string{KindMethod}, Access: []string{AccessPublic}},
			{Label: "Private Methods", Kinds: []string{KindMethod}, Access: []string{AccessProtected, AccessPrivate}},
		},
		Include: []string{"**/*.ts", "**/*.tsx"},
		Exclude: []string{"**/node_modules/**", "**/*.d.ts", "**/.git/**"},
	}
}
