package ir

import (
	"fmt"
	"strings"
)

// Module is an in-memory IR module.
type Module struct {
	Name      string
	Functions []*Function
}

// Lookup returns the function with the given name.
func (m *Module) Lookup(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// Verify checks that every function with a body has at least one block and
// that every block ends with a return.
func (m *Module) Verify() error {
	for _, f := range m.Functions {
		if f.Linkage == External {
			if len(f.Blocks) > 0 {
				return fmt.Errorf("external function `%s` has a body", f.Name)
			}

			continue
		}

		if len(f.Blocks) == 0 {
			return fmt.Errorf("function `%s` has no blocks", f.Name)
		}

		for _, b := range f.Blocks {
			if !b.Terminated() {
				return fmt.Errorf("block b%d of function `%s` is not terminated", b.ID, f.Name)
			}
		}
	}

	return nil
}

// String renders the module as text.
func (m *Module) String() string {
	var sb strings.Builder

	for i, f := range m.Functions {
		if i > 0 {
			sb.WriteByte('\n')
		}

		m.writeFunction(&sb, f)
	}

	return sb.String()
}

func (m *Module) writeFunction(sb *strings.Builder, f *Function) {
	fmt.Fprintf(sb, "%s fn %s(", f.Linkage, f.Name)
	for i, param := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		if f.Linkage == External {
			fmt.Fprintf(sb, "%s: %s", param.Name, param.Type)
		} else {
			fmt.Fprintf(sb, "v%d %s: %s", f.Args[i], param.Name, param.Type)
		}
	}
	fmt.Fprintf(sb, ") -> %s", f.Return)

	if f.Linkage == External {
		sb.WriteByte('\n')
		return
	}

	sb.WriteString(" {\n")

	for _, v := range f.Vars[len(f.Params):] {
		fmt.Fprintf(sb, "  let v%d %s: %s\n", v.ID, v.Name, v.Type)
	}

	for _, b := range f.Blocks {
		fmt.Fprintf(sb, "b%d:\n", b.ID)

		for _, instr := range b.Instrs {
			sb.WriteString("  ")
			if instr.HasResult {
				fmt.Fprintf(sb, "%%%d = ", instr.Result)
			}

			m.writeOperation(sb, instr.Op)
			sb.WriteByte('\n')
		}
	}

	sb.WriteString("}\n")
}

func (m *Module) writeOperation(sb *strings.Builder, op Operation) {
	switch {
	case op.Code == OpInteger:
		if op.Type.Signed {
			fmt.Fprintf(sb, "const %s %d", op.Type, op.IntegerValue())
		} else {
			fmt.Fprintf(sb, "const %s %d", op.Type, uint64(op.IntegerValue()))
		}
	case op.Code.IsBinary():
		fmt.Fprintf(sb, "%s %s %%%d, %%%d", op.Code, op.Type, op.Args[0], op.Args[1])
	case op.Code == OpGetVar:
		fmt.Fprintf(sb, "getvar %s v%d", op.Type, op.Var)
	case op.Code == OpSetVar:
		fmt.Fprintf(sb, "setvar v%d, %%%d", op.Var, op.Args[0])
	case op.Code == OpCall:
		fmt.Fprintf(sb, "call %s @%s(%s)", op.Type, m.Functions[op.Func].Name, joinValues(op.Args))
	case op.Code == OpReturn:
		sb.WriteString("ret")
		if len(op.Args) > 0 {
			fmt.Fprintf(sb, " %%%d", op.Args[0])
		}
	default:
		sb.WriteString(op.Code.String())
	}
}

func joinValues(values []Value) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%%%d", v)
	}

	return strings.Join(strs, ", ")
}
