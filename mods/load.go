// Package mods loads lqd projects: a single entry source file plus the build
// settings read from its project file.
package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/types"

	"github.com/pelletier/go-toml"
	"golang.org/x/mod/semver"
)

// Project is an lqd project.
type Project struct {
	// Name is the name of the project.
	Name string

	// Root is the directory holding the project.
	Root string

	// EntryPath is the path to the source file to compile.
	EntryPath string

	// OutputPath is the path the compiled output is written to.
	OutputPath string

	// Target is the output target: one of the enumerated targets in common.
	Target string

	// RequireMain indicates whether the program must define a main function.
	RequireMain bool

	// Types is the type table built from the builtin types and the project's
	// type aliases.
	Types *types.Table
}

// tomlProject represents a project file as it is encoded in TOML.
type tomlProject struct {
	Name        string            `toml:"name"`
	LqdVersion  string            `toml:"lqd-version"`
	Entry       string            `toml:"entry,omitempty"`
	Output      string            `toml:"output,omitempty"`
	Target      string            `toml:"target,omitempty"`
	RequireMain bool              `toml:"require-main"`
	Types       map[string]string `toml:"types,omitempty"`
}

// Load loads the project at path.  If path is a directory, it must contain a
// project file.  If path is a source file, the project file in its directory
// is used if there is one; otherwise, the file is compiled with the default
// settings.
func Load(path string) (*Project, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	finfo, err := os.Stat(abspath)
	if err != nil {
		return nil, err
	}

	if finfo.IsDir() {
		return LoadProjectFile(abspath)
	}

	if filepath.Ext(abspath) != common.LqdFileExt {
		return nil, fmt.Errorf("`%s` is not an lqd source file", path)
	}

	dir := filepath.Dir(abspath)
	if _, err := os.Stat(filepath.Join(dir, common.LqdProjectFileName)); err == nil {
		proj, err := LoadProjectFile(dir)
		if err != nil {
			return nil, err
		}

		// the file given explicitly takes precedence over the project's entry
		proj.EntryPath = abspath
		return proj, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return DefaultProject(abspath), nil
}

// DefaultProject creates the project for a lone source file.
func DefaultProject(entryPath string) *Project {
	name := strings.TrimSuffix(filepath.Base(entryPath), filepath.Ext(entryPath))
	dir := filepath.Dir(entryPath)

	return &Project{
		Name:        name,
		Root:        dir,
		EntryPath:   entryPath,
		OutputPath:  filepath.Join(dir, name+common.TargetExts[common.TargetIR]),
		Target:      common.TargetIR,
		RequireMain: true,
		Types:       types.DefaultTable(),
	}
}

// LoadProjectFile loads the project file in the directory dir.
func LoadProjectFile(dir string) (*Project, error) {
	buff, err := os.ReadFile(filepath.Join(dir, common.LqdProjectFileName))
	if err != nil {
		return nil, err
	}

	return ParseProjectFile(dir, buff)
}

// ParseProjectFile parses the contents of the project file of the project in
// the directory dir.
func ParseProjectFile(dir string, buff []byte) (*Project, error) {
	tree, err := toml.LoadBytes(buff)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", common.LqdProjectFileName, err)
	}

	tp := &tomlProject{}
	if err := tree.Unmarshal(tp); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", common.LqdProjectFileName, err)
	}

	// main is required unless explicitly disabled
	if !tree.Has("require-main") {
		tp.RequireMain = true
	}

	if err := validateProject(tp); err != nil {
		return nil, err
	}

	proj := &Project{
		Name:        tp.Name,
		Root:        dir,
		Target:      tp.Target,
		RequireMain: tp.RequireMain,
	}

	if proj.Target == "" {
		proj.Target = common.TargetIR
	}

	if tp.Entry == "" {
		proj.EntryPath = filepath.Join(dir, tp.Name+common.LqdFileExt)
	} else {
		proj.EntryPath = resolvePath(dir, tp.Entry)
	}

	if tp.Output == "" {
		proj.OutputPath = filepath.Join(dir, tp.Name+common.TargetExts[proj.Target])
	} else {
		proj.OutputPath = resolvePath(dir, tp.Output)
	}

	proj.Types, err = types.NewTable(tp.Types)
	if err != nil {
		return nil, fmt.Errorf("project `%s`: %w", tp.Name, err)
	}

	return proj, nil
}

// validateProject checks that the contents of a project file are valid.
func validateProject(tp *tomlProject) error {
	if tp.Name == "" {
		return errors.New("missing project name")
	}

	if !IsValidIdentifier(tp.Name) {
		return errors.New("project name must be a valid identifier")
	}

	if tp.Target != "" {
		if _, ok := common.TargetExts[tp.Target]; !ok {
			return fmt.Errorf("project `%s`: `%s` is not a valid target", tp.Name, tp.Target)
		}
	}

	return checkVersion(tp.Name, tp.LqdVersion)
}

// checkVersion checks the compiler version a project asks for against the
// version of this compiler.  Projects requiring a newer compiler are rejected;
// projects written for an older major version only produce a warning.
func checkVersion(name, version string) error {
	if version == "" {
		return nil
	}

	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	if !semver.IsValid(version) {
		return fmt.Errorf("project `%s`: `%s` is not a valid version", name, version)
	}

	if semver.Compare(version, common.LqdVersion) > 0 {
		return fmt.Errorf("project `%s` requires lqd %s but this is lqd %s", name, version, common.LqdVersion)
	}

	if semver.Major(version) != semver.Major(common.LqdVersion) {
		report.ReportWarning(
			"project",
			"version of project `%s` (%s) does not match current lqd version (%s)",
			name,
			version,
			common.LqdVersion,
		)
	}

	return nil
}

// resolvePath resolves a path in a project file relative to the project
// directory.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, filepath.FromSlash(path))
}

// IsValidIdentifier returns whether the given string would be a valid lqd
// identifier.
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	for i, c := range idstr {
		switch {
		case c == '_', c == '$', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
