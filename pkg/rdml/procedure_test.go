package rdml

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileProcedures(t *testing.T) {
	src := `
<proc name="intro">
  <wait time="1"/>
</proc>
<package name="town">
  <proc name="inn"><exit/></proc>
  <proc name="shop"/>
</package>`

	prog, err := CompileProcedures(src, DefaultRegistry)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro", "town.inn", "town.shop"}, prog.Names())
	assert.Empty(t, prog.Warnings)

	intro, ok := prog.Lookup("intro")
	require.True(t, ok)
	assert.Equal(t, []Instruction{ins(230, 0, 1), ins(0, 0)}, intro.Instructions)

	inn, ok := prog.Lookup("town.inn")
	require.True(t, ok)
	assert.Equal(t, []Instruction{ins(115, 0), ins(0, 0)}, inn.Instructions)

	shop, ok := prog.Lookup("town.shop")
	require.True(t, ok)
	assert.Equal(t, []Instruction{ins(0, 0)}, shop.Instructions)

	_, ok = prog.Lookup("shop")
	assert.False(t, ok)
}

func TestCompileProcedures_KeepsSourceOrder(t *testing.T) {
	prog, err := CompileProcedures(`<proc name="b"/><proc name="a"/>`, DefaultRegistry)
	require.NoError(t, err)
	require.Len(t, prog.Procedures, 2)
	assert.Equal(t, "b", prog.Procedures[0].Name)
	assert.Equal(t, "a", prog.Procedures[1].Name)
}

func TestCompileProcedures_Warnings(t *testing.T) {
	prog, err := CompileProcedures(`stray<proc name="a"><wait time="1" x="y"/></proc>`, DefaultRegistry)
	require.NoError(t, err)
	require.Len(t, prog.Warnings, 2)
	assert.Contains(t, prog.Warnings[0], "stray")
	assert.Contains(t, prog.Warnings[1], `"x"`)
}

func TestCompileProcedures_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		sentinel error
		element  string
	}{
		{"duplicate name", `<proc name="a"/><proc name="a"/>`, ErrDuplicateProc, "proc"},
		{"duplicate across packages", `<package name="p"><proc name="a"/></package><package name="p"><proc name="a"/></package>`, ErrDuplicateProc, "proc"},
		{"missing name", `<proc/>`, ErrRequiredAttr, "proc"},
		{"empty name", `<proc name=""/>`, ErrInvalidValue, "proc"},
		{"command at top level", `<wait time="1"/>`, ErrInvalidContent, "wait"},
		{"command in package", `<package name="p"><wait time="1"/></package>`, ErrInvalidContent, "wait"},
		{"error inside proc", `<proc name="a"><dance/></proc>`, ErrUnknownCommand, "dance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := CompileProcedures(tt.src, DefaultRegistry)
			require.Error(t, err)
			assert.Nil(t, prog)
			assert.ErrorIs(t, err, tt.sentinel)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.element, ce.Element)
		})
	}
}

func TestProgram_Merge(t *testing.T) {
	a, err := CompileProcedures(`<proc name="a"/>`, DefaultRegistry)
	require.NoError(t, err)
	b, err := CompileProcedures(`<proc name="b"/>`, DefaultRegistry)
	require.NoError(t, err)

	var prog Program
	require.NoError(t, prog.Merge(a))
	require.NoError(t, prog.Merge(b))
	assert.Equal(t, []string{"a", "b"}, prog.Names())

	err = prog.Merge(a)
	assert.ErrorIs(t, err, ErrDuplicateProc)
}

func TestProgram_MarshalJSON(t *testing.T) {
	prog, err := CompileProcedures(`<proc name="a"><wait time="2"/></proc><proc name="b"/>`, DefaultRegistry)
	require.NoError(t, err)

	data, err := json.Marshal(prog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"procs": {
		"a": [{"code": 230, "indent": 0, "parameters": [2]}, {"code": 0, "indent": 0, "parameters": []}],
		"b": [{"code": 0, "indent": 0, "parameters": []}]
	}}`, string(data))
}
