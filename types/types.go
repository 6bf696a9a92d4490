package types

import "fmt"

// Type is an lqd data type.
type Type int

// Enumeration of lqd types.
const (
	Int Type = iota
	Bool
	Void
	Uint

	// InferNum is the type of a numeric value whose concrete type has not been
	// decided yet.  It must be coerced before it is used.
	InferNum
)

var typeNames = [...]string{
	Int:      "int",
	Bool:     "bool",
	Void:     "void",
	Uint:     "uint",
	InferNum: "{number}",
}

func (t Type) String() string {
	if 0 <= int(t) && int(t) < len(typeNames) {
		return typeNames[t]
	}

	return fmt.Sprintf("type(%d)", int(t))
}

// IsNumeric returns whether values of the type support arithmetic.
func (t Type) IsNumeric() bool {
	return t == Int || t == Uint || t == InferNum
}

// Coerce narrows t to the type to.  A concrete type only coerces to itself.
// The inferable numeric type coerces to any numeric type (including itself)
// and to nothing else.  The resulting type is returned along with whether the
// coercion succeeded.
func (t Type) Coerce(to Type) (Type, bool) {
	if t == InferNum {
		if to.IsNumeric() {
			return to, true
		}

		return t, false
	}

	if t == to {
		return t, true
	}

	return t, false
}

// Default returns the concrete type an unresolved type settles on.
func (t Type) Default() Type {
	if t == InferNum {
		return Int
	}

	return t
}
