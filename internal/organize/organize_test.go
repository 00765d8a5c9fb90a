package organize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/tsorg/api"
	"github.com/agentic-research/tsorg/internal/parse"
)

func mustOrganize(t *testing.T, source string, cfg *api.Config) Result {
	t.Helper()
	res, err := Organize("test.ts", source, cfg)
	require.NoError(t, err)
	return res
}

func TestOrganizeGolden(t *testing.T) {
	source := "import { x } from \"./x\";\n\n" +
		"export class Foo {\n" +
		"  public foo(): void {}\n" +
		"  private bar: string = \"b\";\n" +
		"}\n"

	want := "import { x } from \"./x\";\n\n" +
		"// #region Classes (1)\n" +
		"export class Foo {\n" +
		"  // #region Properties (1)\n" +
		"  private bar: string = \"b\";\n" +
		"  // #endregion\n" +
		"\n" +
		"  // #region Public Methods (1)\n" +
		"  public foo(): void {}\n" +
		"  // #endregion\n" +
		"}\n" +
		"// #endregion\n"

	res := mustOrganize(t, source, api.DefaultConfig())
	assert.True(t, res.Changed)
	assert.Equal(t, want, res.Output)
}

func TestOrganizeIdempotent(t *testing.T) {
	source := "import { x } from \"./x\";\n\n" +
		"export function zed(): void {}\n\n" +
		"export interface Shape { area(): number }\n\n" +
		"const limit = 10;\n\n" +
		"export class Circle {\n" +
		"  radius: number = 1;\n" +
		"  constructor(r: number) { this.radius = r; }\n" +
		"  area(): number { return 3.14 * this.radius * this.radius; }\n" +
		"}\n"

	cfg := api.DefaultConfig()
	first := mustOrganize(t, source, cfg)
	require.True(t, first.Changed)

	second := mustOrganize(t, first.Output, cfg)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Output, second.Output)
}

func TestOrganizeIdempotentWithBodyTrailingComment(t *testing.T) {
	// the comment sits after the member that policy moves away from the
	// last position; it must stay at the end of the body on every run
	source := "class C {\n" +
		"  m(): void {}\n" +
		"  p: number = 1;\n" +
		"  // note\n" +
		"}\n"

	cfg := api.DefaultConfig()
	first := mustOrganize(t, source, cfg)
	require.True(t, first.Changed)

	props := strings.Index(first.Output, "// #region Properties (1)")
	methods := strings.Index(first.Output, "// #region Public Methods (1)")
	note := strings.Index(first.Output, "// note")
	require.NotEqual(t, -1, note)
	assert.Less(t, props, methods)
	assert.Less(t, methods, note)

	second := mustOrganize(t, first.Output, cfg)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Output, second.Output)
}

func TestOrganizeFileSectionOrder(t *testing.T) {
	source := "class C {}\n\n" +
		"function f(): void {}\n\n" +
		"const v = 1;\n\n" +
		"type T = string;\n"

	res := mustOrganize(t, source, &api.Config{Sections: api.DefaultConfig().Sections})
	out := res.Output

	types := strings.Index(out, "// #region Types (1)")
	vars := strings.Index(out, "// #region Variables (1)")
	funcs := strings.Index(out, "// #region Functions (1)")
	classes := strings.Index(out, "// #region Classes (1)")
	require.NotEqual(t, -1, types)
	assert.Less(t, types, vars)
	assert.Less(t, vars, funcs)
	assert.Less(t, funcs, classes)
}

func TestOrganizeEmptyClassBodyHasNoMemberMarkers(t *testing.T) {
	source := "export class Empty {}\n"

	res := mustOrganize(t, source, api.DefaultConfig())
	assert.Contains(t, res.Output, "// #region Classes (1)")
	assert.Contains(t, res.Output, "export class Empty {}")
	assert.NotContains(t, res.Output, "Properties")
	assert.NotContains(t, res.Output, "Methods")
}

func TestOrganizeStaleCountsRegenerated(t *testing.T) {
	source := "// #region Variables (99)\n" +
		"const a = 1;\n" +
		"const b = 2;\n" +
		"// #endregion\n"

	res := mustOrganize(t, source, api.DefaultConfig())
	assert.Contains(t, res.Output, "// #region Variables (2)")
	assert.NotContains(t, res.Output, "(99)")
}

func TestOrganizeFallbackSectionLast(t *testing.T) {
	cfg := &api.Config{
		Sections: []api.SectionDef{
			{Label: "Functions", Kinds: []string{api.KindFunction}},
		},
	}
	source := "class C {}\n\nfunction f(): void {}\n\nconst v = 1;\n"

	res := mustOrganize(t, source, cfg)
	out := res.Output

	funcs := strings.Index(out, "// #region Functions (1)")
	other := strings.Index(out, "// #region Other (2)")
	require.NotEqual(t, -1, funcs)
	require.NotEqual(t, -1, other)
	assert.Less(t, funcs, other)
	// fallback keeps original order
	assert.Less(t, strings.Index(out, "class C {}"), strings.Index(out, "const v = 1;"))
}

func TestOrganizeAlphabeticalTiesStable(t *testing.T) {
	cfg := &api.Config{
		Sections: []api.SectionDef{
			{Label: "Functions", Kinds: []string{api.KindFunction}, Alphabetical: true},
		},
	}
	// Overload signatures share a name; the stable sort must keep their
	// declaration order so signatures stay ahead of the implementation.
	source := "function pick(a: string): string;\n" +
		"function pick(a: number): number;\n" +
		"function pick(a: any): any { return a; }\n\n" +
		"function apply(): void {}\n"

	res := mustOrganize(t, source, cfg)
	out := res.Output

	assert.Contains(t, out, "// #region Functions (4)")
	sig1 := strings.Index(out, "function pick(a: string)")
	sig2 := strings.Index(out, "function pick(a: number)")
	impl := strings.Index(out, "function pick(a: any)")
	ap := strings.Index(out, "function apply()")
	assert.Less(t, ap, sig1)
	assert.Less(t, sig1, sig2)
	assert.Less(t, sig2, impl)
}

func TestOrganizeCommentsTravelWithDeclaration(t *testing.T) {
	source := "function zeta(): void {}\n\n" +
		"/** Adds two numbers. */\n" +
		"function add(a: number, b: number): number { return a + b; }\n"

	cfg := &api.Config{
		Sections: []api.SectionDef{
			{Label: "Functions", Kinds: []string{api.KindFunction}, Alphabetical: true},
		},
	}
	res := mustOrganize(t, source, cfg)

	// add sorts ahead of zeta and its doc comment moves with it.
	assert.Contains(t, res.Output,
		"/** Adds two numbers. */\nfunction add(a: number, b: number): number { return a + b; }")
	assert.Less(t,
		strings.Index(res.Output, "function add"),
		strings.Index(res.Output, "function zeta"))
}

func TestOrganizeNoDeclarationsUnchanged(t *testing.T) {
	for _, source := range []string{
		"",
		"// only a comment\n",
		"import { x } from \"./x\";\n",
	} {
		res := mustOrganize(t, source, api.DefaultConfig())
		assert.False(t, res.Changed, "source %q", source)
		assert.Equal(t, source, res.Output)
	}
}

func TestOrganizeSyntaxError(t *testing.T) {
	_, err := Organize("broken.ts", "export class Broken {\n", api.DefaultConfig())
	require.Error(t, err)

	var perr *parse.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.ts", perr.Path)
}

func TestOrganizeMemberCountsPerClass(t *testing.T) {
	source := "class A {\n" +
		"  one(): void {}\n" +
		"  two(): void {}\n" +
		"}\n\n" +
		"class B {\n" +
		"  three(): void {}\n" +
		"}\n"

	res := mustOrganize(t, source, api.DefaultConfig())
	assert.Contains(t, res.Output, "// #region Classes (2)")
	assert.Contains(t, res.Output, "// #region Public Methods (2)")
	assert.Contains(t, res.Output, "// #region Public Methods (1)")
}

func TestOrganizeNoMemberSectionsLeavesBodiesAlone(t *testing.T) {
	source := "class A {\n" +
		"  b(): void {}\n" +
		"  a(): void {}\n" +
		"}\n"

	cfg := &api.Config{Sections: api.DefaultConfig().Sections}
	res := mustOrganize(t, source, cfg)
	assert.Contains(t, res.Output, "  b(): void {}\n  a(): void {}")
	assert.NotContains(t, res.Output, "Public Methods")
}
