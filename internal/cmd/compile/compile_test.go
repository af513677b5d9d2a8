package compile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

func newOpts(stdin string) (*compileOptions, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &compileOptions{
		output:  "json",
		noColor: true,
		stdin:   strings.NewReader(stdin),
		stdout:  &stdout,
		stderr:  &stderr,
	}, &stdout, &stderr
}

func TestRunCompile_Stdin(t *testing.T) {
	opts, stdout, stderr := newOpts(`<wait time="60"/>`)

	require.NoError(t, runCompile("-", opts))
	assert.JSONEq(t, `[
		{"code": 230, "indent": 0, "parameters": [60]},
		{"code": 0, "indent": 0, "parameters": []}
	]`, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunCompile_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.rdml")
	require.NoError(t, os.WriteFile(path, []byte("<fadeout/>\n<fadein/>\n"), 0644))

	opts, stdout, _ := newOpts("")
	require.NoError(t, runCompile(path, opts))

	var ins []rdml.Instruction
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &ins))
	require.Len(t, ins, 3)
	assert.Equal(t, 221, ins[0].Code)
	assert.Equal(t, 222, ins[1].Code)
}

func TestRunCompile_Warnings(t *testing.T) {
	opts, _, stderr := newOpts(`<wait time="1" speed="2"/>`)

	require.NoError(t, runCompile("-", opts))
	assert.Contains(t, stderr.String(), `! -: <wait> at line 1: ignoring unknown attribute "speed"`)
}

func TestRunCompile_Table(t *testing.T) {
	opts, stdout, _ := newOpts(`<wait time="60"/>`)
	opts.output = "table"

	require.NoError(t, runCompile("-", opts))
	assert.Equal(t, "CODE  INDENT  PARAMETERS\n230  0  [60]\n0  0  []\n", stdout.String())
}

func TestRunCompile_Procs(t *testing.T) {
	opts, stdout, _ := newOpts(`<package name="town"><proc name="inn"><exit/></proc></package>`)
	opts.procs = true

	require.NoError(t, runCompile("-", opts))
	assert.JSONEq(t, `{"procs": {"town.inn": [
		{"code": 115, "indent": 0, "parameters": []},
		{"code": 0, "indent": 0, "parameters": []}
	]}}`, stdout.String())
}

func TestRunCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		procs   bool
		wantErr string
	}{
		{"syntax error", `<wait time="60`, false, "syntax error: unclosed value at line 1"},
		{"missing attribute", `<wait/>`, false, `attribute group "time"`},
		{"script given as procs", `<wait time="1"/>`, true, "expected <proc> or <package>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, stdout, _ := newOpts(tt.input)
			opts.procs = tt.procs

			err := runCompile("-", opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunCompile_MissingFile(t *testing.T) {
	opts, _, _ := newOpts("")
	err := runCompile(filepath.Join(t.TempDir(), "nope.rdml"), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestNewCmdCompile(t *testing.T) {
	cmd := NewCmdCompile()
	assert.Equal(t, "compile <file|->", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("procs"))
	assert.Error(t, cmd.Args(cmd, []string{}))
}
