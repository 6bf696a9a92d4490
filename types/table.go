package types

import (
	"fmt"
	"sort"
)

// builtinTypes maps the names of the builtin types to their types.
var builtinTypes = map[string]Type{
	"int":  Int,
	"bool": Bool,
	"void": Void,
	"uint": Uint,
}

// Table maps type names to types.  A table is built once at the start of a
// compilation and is never modified afterwards: it is shared by reference
// between every pass that resolves type names.
type Table struct {
	names map[string]Type
}

// NewTable creates a type table containing the builtin types plus the given
// aliases.  Each alias maps a new name to the name of a builtin type.
func NewTable(aliases map[string]string) (*Table, error) {
	t := &Table{names: make(map[string]Type, len(builtinTypes)+len(aliases))}
	for name, typ := range builtinTypes {
		t.names[name] = typ
	}

	// sorted so that the reported error is deterministic
	aliasNames := make([]string, 0, len(aliases))
	for name := range aliases {
		aliasNames = append(aliasNames, name)
	}
	sort.Strings(aliasNames)

	for _, alias := range aliasNames {
		if _, ok := builtinTypes[alias]; ok {
			return nil, fmt.Errorf("type alias `%s` shadows a builtin type", alias)
		}

		typ, ok := builtinTypes[aliases[alias]]
		if !ok {
			return nil, fmt.Errorf("type alias `%s` refers to unknown type `%s`", alias, aliases[alias])
		}

		t.names[alias] = typ
	}

	return t, nil
}

// DefaultTable creates a type table containing only the builtin types.
func DefaultTable() *Table {
	t, _ := NewTable(nil)
	return t
}

// Lookup looks up a type by name.
func (t *Table) Lookup(name string) (Type, bool) {
	typ, ok := t.names[name]
	return typ, ok
}

// Names returns all the type names in the table in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.names))
	for name := range t.names {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
