// Package ir defines the target-independent intermediate representation the
// lowering pass emits into.  Lowering only ever sees the Builder interface:
// the in-memory ModuleBuilder and the LLVM-backed builder in package generate
// both implement it.
package ir

import "fmt"

// Type is an IR value type: an integer of some width and signedness, or void.
type Type struct {
	// Bits is the width of the integer.  It is zero for void.
	Bits int

	Signed bool
}

// Enumeration of the IR types lowering produces.
var (
	Void = Type{}
	I64  = Type{Bits: 64, Signed: true}
	U64  = Type{Bits: 64}
	U8   = Type{Bits: 8}
)

// IsVoid returns whether the type has no values.
func (t Type) IsVoid() bool {
	return t.Bits == 0
}

// Size returns the size of the type in bytes.
func (t Type) Size() int {
	return (t.Bits + 7) / 8
}

func (t Type) String() string {
	switch {
	case t.IsVoid():
		return "void"
	case t.Signed:
		return fmt.Sprintf("i%d", t.Bits)
	default:
		return fmt.Sprintf("u%d", t.Bits)
	}
}

// Linkage is the linkage of an IR function.
type Linkage int

// Enumeration of IR linkages.
const (
	Private Linkage = iota
	Public
	External
)

func (l Linkage) String() string {
	switch l {
	case Private:
		return "private"
	case Public:
		return "public"
	default:
		return "external"
	}
}

// FunctionID identifies a function within a module.
type FunctionID int

// BlockID identifies a basic block within a module.
type BlockID int

// VariableID identifies a variable slot within a function.
type VariableID int

// Value identifies the result of an instruction within a function.
type Value int

// Param is a parameter of an IR function.
type Param struct {
	Name string
	Type Type
}
