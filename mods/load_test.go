package mods

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/types"
	"github.com/nalgeon/be"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	be.Err(t, os.WriteFile(path, []byte(content), 0o644), nil)
}

func TestParseProjectFile(t *testing.T) {
	dir := t.TempDir()

	proj, err := ParseProjectFile(dir, []byte(`
name = "calc"
lqd-version = "0.1.0"
entry = "src/calc.lqd"
target = "llvm"
require-main = false

[types]
i64 = "int"
flag = "bool"
`))
	be.Err(t, err, nil)

	be.Equal(t, proj.Name, "calc")
	be.Equal(t, proj.Root, dir)
	be.Equal(t, proj.EntryPath, filepath.Join(dir, "src", "calc.lqd"))
	be.Equal(t, proj.OutputPath, filepath.Join(dir, "calc.ll"))
	be.Equal(t, proj.Target, common.TargetLLVM)
	be.Equal(t, proj.RequireMain, false)

	typ, ok := proj.Types.Lookup("i64")
	be.True(t, ok)
	be.Equal(t, typ, types.Int)

	typ, ok = proj.Types.Lookup("flag")
	be.True(t, ok)
	be.Equal(t, typ, types.Bool)
}

func TestParseProjectFileDefaults(t *testing.T) {
	dir := t.TempDir()

	proj, err := ParseProjectFile(dir, []byte(`name = "app"`))
	be.Err(t, err, nil)

	be.Equal(t, proj.EntryPath, filepath.Join(dir, "app.lqd"))
	be.Equal(t, proj.OutputPath, filepath.Join(dir, "app.lqir"))
	be.Equal(t, proj.Target, common.TargetIR)
	be.True(t, proj.RequireMain)

	_, ok := proj.Types.Lookup("int")
	be.True(t, ok)
}

func TestParseProjectFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", `name = `, "error parsing lqd.toml"},
		{"missing name", `target = "ir"`, "missing project name"},
		{"bad name", `name = "my app"`, "valid identifier"},
		{"bad target", "name = \"app\"\ntarget = \"wasm\"", "`wasm` is not a valid target"},
		{"bad version", "name = \"app\"\nlqd-version = \"one\"", "is not a valid version"},
		{"newer version", "name = \"app\"\nlqd-version = \"v9.0.0\"", "requires lqd v9.0.0"},
		{"shadowing alias", "name = \"app\"\n[types]\nint = \"uint\"", "shadows a builtin type"},
		{"unknown alias", "name = \"app\"\n[types]\nbig = \"i128\"", "refers to unknown type `i128`"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseProjectFile(t.TempDir(), []byte(test.content))
			be.Err(t, err, test.want)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, common.LqdProjectFileName), "name = \"app\"\noutput = \"out/app.txt\"")

	proj, err := Load(dir)
	be.Err(t, err, nil)
	be.Equal(t, proj.EntryPath, filepath.Join(dir, "app.lqd"))
	be.Equal(t, proj.OutputPath, filepath.Join(dir, "out", "app.txt"))

	_, err = Load(t.TempDir())
	be.Err(t, err, "lqd.toml")
}

func TestLoadSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lqd")
	writeFile(t, path, "fn main -> void {}")

	proj, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, proj.Name, "hello")
	be.Equal(t, proj.EntryPath, path)
	be.Equal(t, proj.OutputPath, filepath.Join(dir, "hello.lqir"))
	be.True(t, proj.RequireMain)

	// a project file next to the source file supplies the settings
	writeFile(t, filepath.Join(dir, common.LqdProjectFileName), "name = \"proj\"\nrequire-main = false")

	proj, err = Load(path)
	be.Err(t, err, nil)
	be.Equal(t, proj.Name, "proj")
	be.Equal(t, proj.EntryPath, path)
	be.Equal(t, proj.RequireMain, false)
}

func TestLoadRejectsOtherFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, path, "")

	_, err := Load(path)
	be.Err(t, err, "is not an lqd source file")
}

func TestIsValidIdentifier(t *testing.T) {
	for _, id := range []string{"a", "_x", "abc123", "$tmp"} {
		be.True(t, IsValidIdentifier(id))
	}

	for _, id := range []string{"", "1a", "a-b", "a b"} {
		be.True(t, !IsValidIdentifier(id))
	}
}
