package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionDefMatches(t *testing.T) {
	def := SectionDef{
		Label:  "Private Methods",
		Kinds:  []string{KindMethod},
		Access: []string{AccessPrivate, AccessProtected},
	}

	assert.True(t, def.Matches(KindMethod, AccessPrivate, false))
	assert.True(t, def.Matches(KindMethod, AccessProtected, true))
	assert.False(t, def.Matches(KindMethod, AccessPublic, false))
	assert.False(t, def.Matches(KindProperty, AccessPrivate, false))
}

func TestSectionDefMatchesStatic(t *testing.T) {
	isStatic := true
	def := SectionDef{Label: "Static Properties", Kinds: []string{KindProperty}, Static: &isStatic}

	assert.True(t, def.Matches(KindProperty, AccessPublic, true))
	assert.False(t, def.Matches(KindProperty, AccessPublic, false))

	// nil static matches either
	def.Static = nil
	assert.True(t, def.Matches(KindProperty, AccessPublic, true))
	assert.True(t, def.Matches(KindProperty, AccessPublic, false))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	cfg := &Config{
		Sections: []SectionDef{{Label: "Widgets", Kinds: []string{"widget"}}},
	}
	err := cfg.Validate()
	require.Error(t, err)

	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Widgets", cerr.Section)
	assert.Contains(t, err.Error(), "widget")
}

func TestValidateRejectsMemberKindAtFileLevel(t *testing.T) {
	cfg := &Config{
		Sections: []SectionDef{{Label: "Methods", Kinds: []string{KindMethod}}},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingLabel(t *testing.T) {
	cfg := &Config{Sections: []SectionDef{{Kinds: []string{KindClass}}}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownAccess(t *testing.T) {
	cfg := &Config{
		MemberSections: []SectionDef{{Label: "M", Kinds: []string{KindMethod}, Access: []string{"internal"}}},
	}
	assert.Error(t, cfg.Validate())
}
