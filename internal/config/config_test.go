package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/tsorg/api"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsorg.json")
	writeFile(t, path, `{
  "sections": [
    {"label": "Functions", "kinds": ["function"], "alphabetical": true}
  ],
  "memberSections": [
    {"label": "Methods", "kinds": ["method"], "access": ["public"]}
  ]
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 1)
	assert.Equal(t, "Functions", cfg.Sections[0].Label)
	assert.True(t, cfg.Sections[0].Alphabetical)
	require.Len(t, cfg.MemberSections, 1)
	assert.Equal(t, []string{"public"}, cfg.MemberSections[0].Access)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsorg.yaml")
	writeFile(t, path, `sections:
  - label: Types
    kinds: [interface, type]
  - label: Classes
    kinds: [class]
memberSections:
  - label: Static Methods
    kinds: [method]
    static: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 2)
	assert.Equal(t, []string{"interface", "type"}, cfg.Sections[0].Kinds)
	require.NotNil(t, cfg.MemberSections[0].Static)
	assert.True(t, *cfg.MemberSections[0].Static)
}

func TestLoadHCL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsorg.hcl")
	writeFile(t, path, `section "Variables" {
  kinds = ["variable"]
}

member_section "Properties" {
  kinds  = ["property"]
  static = false
}

include = ["src/**/*.ts"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 1)
	assert.Equal(t, "Variables", cfg.Sections[0].Label)
	require.Len(t, cfg.MemberSections, 1)
	require.NotNil(t, cfg.MemberSections[0].Static)
	assert.False(t, *cfg.MemberSections[0].Static)
	assert.Equal(t, []string{"src/**/*.ts"}, cfg.Include)
}

func TestLoadAppliesFilterDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsorg.json")
	writeFile(t, path, `{"sections": [{"label": "Classes", "kinds": ["class"]}]}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, api.DefaultConfig().Include, cfg.Include)
	assert.Equal(t, api.DefaultConfig().Exclude, cfg.Exclude)
}

func TestLoadRejectsInvalidKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsorg.json")
	writeFile(t, path, `{"sections": [{"label": "Widgets", "kinds": ["widget"]}]}`)

	_, err := Load(path)
	require.Error(t, err)
	var cerr *api.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Widgets", cerr.Section)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsorg.toml")
	writeFile(t, path, "sections = []\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestDiscoverWalksParents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsorg.json"),
		`{"sections": [{"label": "Classes", "kinds": ["class"]}]}`)

	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, path, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "tsorg.json"), path)
	require.Len(t, cfg.Sections, 1)
	assert.Equal(t, "Classes", cfg.Sections[0].Label)
}

func TestDiscoverPrefersNearestFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsorg.json"),
		`{"sections": [{"label": "Outer", "kinds": ["class"]}]}`)

	nested := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, filepath.Join(nested, "tsorg.yaml"),
		"sections:\n  - label: Inner\n    kinds: [class]\n")

	cfg, path, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "tsorg.yaml"), path)
	assert.Equal(t, "Inner", cfg.Sections[0].Label)
}

func TestDiscoverDefaultsWhenAbsent(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, api.DefaultConfig(), cfg)
}

func TestHashChangesWithConfig(t *testing.T) {
	a := api.DefaultConfig()
	b := api.DefaultConfig()
	assert.Equal(t, Hash(a), Hash(b))

	b.Sections = b.Sections[:1]
	assert.NotEqual(t, Hash(a), Hash(b))
}
