package ir

import (
	"encoding/binary"
	"fmt"
)

// OpCode is the code of an IR operation.
type OpCode int

// Enumeration of op codes.
const (
	OpInteger OpCode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpGt
	OpGte
	OpEq
	OpLt
	OpLte
	OpGetVar
	OpSetVar
	OpCall
	OpReturn
)

var opNames = [...]string{
	OpInteger: "const",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpGt:      "gt",
	OpGte:     "gte",
	OpEq:      "eq",
	OpLt:      "lt",
	OpLte:     "lte",
	OpGetVar:  "getvar",
	OpSetVar:  "setvar",
	OpCall:    "call",
	OpReturn:  "ret",
}

func (c OpCode) String() string {
	if 0 <= int(c) && int(c) < len(opNames) {
		return opNames[c]
	}

	return fmt.Sprintf("op(%d)", int(c))
}

// IsArithmetic returns whether the op code is a binary arithmetic operation.
func (c OpCode) IsArithmetic() bool {
	return OpAdd <= c && c <= OpDiv
}

// IsComparison returns whether the op code is a comparison.
func (c OpCode) IsComparison() bool {
	return OpGt <= c && c <= OpLte
}

// IsBinary returns whether the op code takes exactly two operands.
func (c OpCode) IsBinary() bool {
	return c.IsArithmetic() || c.IsComparison()
}

// Operation is an IR operation.  Which fields are meaningful depends on the
// op code.
type Operation struct {
	Code OpCode

	// Type is the operand type for arithmetic and comparisons, the constant's
	// type for integers, the variable's type for reads and the return type of
	// the callee for calls.
	Type Type

	// Bytes is the little-endian encoding of an integer constant.
	Bytes []byte

	// Args are the operands: the two sides of a binary operation, the
	// arguments of a call, the value written by SetVar and the (optional)
	// value returned by Return.
	Args []Value

	// Var is the variable read or written.
	Var VariableID

	// Func is the callee.
	Func FunctionID
}

// ResultType returns the type of the value the operation produces.
func (op Operation) ResultType() Type {
	switch {
	case op.Code.IsComparison():
		return U8
	case op.Code == OpSetVar, op.Code == OpReturn:
		return Void
	default:
		return op.Type
	}
}

// -----------------------------------------------------------------------------

// NewInteger creates an integer constant from its little-endian encoding.
func NewInteger(t Type, bytes []byte) Operation {
	return Operation{Code: OpInteger, Type: t, Bytes: bytes}
}

// NewIntegerValue creates an integer constant of the given type holding v
// truncated to the width of the type.
func NewIntegerValue(t Type, v int64) Operation {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return NewInteger(t, buf[:t.Size()])
}

// NewBinary creates a binary arithmetic or comparison operation over operands
// of type t.
func NewBinary(code OpCode, t Type, lhs, rhs Value) Operation {
	return Operation{Code: code, Type: t, Args: []Value{lhs, rhs}}
}

// NewGetVar creates a read of a variable of type t.
func NewGetVar(t Type, v VariableID) Operation {
	return Operation{Code: OpGetVar, Type: t, Var: v}
}

// NewSetVar creates a write of value to a variable.
func NewSetVar(v VariableID, value Value) Operation {
	return Operation{Code: OpSetVar, Var: v, Args: []Value{value}}
}

// NewCall creates a call of a function returning rtType.
func NewCall(f FunctionID, rtType Type, args []Value) Operation {
	return Operation{Code: OpCall, Type: rtType, Func: f, Args: args}
}

// NewReturn creates a return from the current function, optionally with a
// value.
func NewReturn(value ...Value) Operation {
	return Operation{Code: OpReturn, Args: value}
}

// IntegerValue decodes the value of an integer constant.  Signed constants
// are sign-extended.
func (op Operation) IntegerValue() int64 {
	var buf [8]byte
	copy(buf[:], op.Bytes)

	if op.Type.Signed && len(op.Bytes) > 0 && len(op.Bytes) < 8 && op.Bytes[len(op.Bytes)-1]&0x80 != 0 {
		for i := len(op.Bytes); i < 8; i++ {
			buf[i] = 0xff
		}
	}

	return int64(binary.LittleEndian.Uint64(buf[:]))
}
