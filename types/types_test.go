package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		from, to Type
		want     Type
		ok       bool
	}{
		{Int, Int, Int, true},
		{Int, Uint, Int, false},
		{Bool, Bool, Bool, true},
		{Bool, Int, Bool, false},
		{Void, Void, Void, true},
		{InferNum, Int, Int, true},
		{InferNum, Uint, Uint, true},
		{InferNum, InferNum, InferNum, true},
		{InferNum, Bool, InferNum, false},
		{InferNum, Void, InferNum, false},
		{Int, InferNum, Int, false},
	}

	for _, test := range tests {
		t.Run(test.from.String()+"->"+test.to.String(), func(t *testing.T) {
			got, ok := test.from.Coerce(test.to)
			be.Equal(t, got, test.want)
			be.Equal(t, ok, test.ok)
		})
	}
}

func TestDefault(t *testing.T) {
	be.Equal(t, InferNum.Default(), Int)
	be.Equal(t, Uint.Default(), Uint)
	be.Equal(t, Bool.Default(), Bool)
}

func TestTable(t *testing.T) {
	tt := DefaultTable()

	for name, want := range map[string]Type{"int": Int, "bool": Bool, "void": Void, "uint": Uint} {
		got, ok := tt.Lookup(name)
		be.True(t, ok)
		be.Equal(t, got, want)
	}

	_, ok := tt.Lookup("i64")
	be.True(t, !ok)
	be.Equal(t, tt.Names(), []string{"bool", "int", "uint", "void"})
}

func TestTableAliases(t *testing.T) {
	tt, err := NewTable(map[string]string{"i64": "int", "u64": "uint"})
	be.Err(t, err, nil)

	got, ok := tt.Lookup("i64")
	be.True(t, ok)
	be.Equal(t, got, Int)

	got, ok = tt.Lookup("u64")
	be.True(t, ok)
	be.Equal(t, got, Uint)

	_, err = NewTable(map[string]string{"int": "bool"})
	be.Err(t, err, "shadows a builtin type")

	_, err = NewTable(map[string]string{"str": "string"})
	be.Err(t, err, "refers to unknown type `string`")
}
