package lower

import (
	"strconv"

	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/ir"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/resolve"
	"github.com/lqd-lang/liquid/types"
)

// lowerNode lowers a node of the body of the given job.  It returns the value
// the node produces, its type and whether it produces a value at all.
func (l *Lowerer) lowerNode(n *ast.Node, j *job) (ir.Value, types.Type, bool, error) {
	switch n.Kind {
	case ast.Expr:
		if len(n.Children) == 0 {
			return 0, types.Void, false, nil
		}

		return l.lowerNode(n.Children[0], j)
	case ast.Number:
		return l.lowerNumber(n)
	case ast.True, ast.False:
		var bit int64
		if n.Kind == ast.True {
			bit = 1
		}

		v, err := l.pushValue(ir.NewIntegerValue(ir.U8, bit), n.Span())
		return v, types.Bool, err == nil, err
	case ast.Ident:
		name := n.Text(l.src)

		b, ok := j.vars[name]
		if !ok {
			return 0, 0, false, report.Raise(report.KindName, n.Span(), "variable `%s` does not exist", name)
		}

		v, err := l.pushValue(ir.NewGetVar(convType(b.typ), b.slot), n.Span())
		return v, b.typ, err == nil, err
	case ast.Sum, ast.Product, ast.BoolExpr:
		return l.lowerChain(n, j)
	case ast.Let:
		return 0, types.Void, false, l.lowerLet(n, j)
	case ast.FnCall:
		return l.lowerCall(n, j)
	case ast.FnDef:
		return 0, types.Void, false, l.lowerNestedFunc(n, j)
	case ast.Extern:
		return 0, 0, false, report.RaiseICE(n.Span(), "extern blocks cannot appear in function bodies")
	case ast.If:
		return 0, 0, false, report.Raise(report.KindUsage, n.Span(), "if expressions are not supported")
	default:
		return 0, 0, false, report.RaiseICE(n.Span(), "unable to lower %s node", n.Kind)
	}
}

// lowerNumber materializes an integer literal.  Only literals which fit in a
// signed 64 bit integer are accepted.
func (l *Lowerer) lowerNumber(n *ast.Node) (ir.Value, types.Type, bool, error) {
	text := n.Text(l.src)

	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, 0, false, report.Raise(
			report.KindLexical,
			n.Span(),
			"malformed integer `%s`",
			text,
		).Labelled("integer literals must fit in a signed 64 bit integer")
	}

	v, err := l.pushValue(ir.NewIntegerValue(ir.I64, x), n.Span())
	return v, types.Int, err == nil, err
}

var chainOps = map[ast.NodeKind]ir.OpCode{
	ast.Add: ir.OpAdd,
	ast.Sub: ir.OpSub,
	ast.Mul: ir.OpMul,
	ast.Div: ir.OpDiv,
	ast.GT:  ir.OpGt,
	ast.GTE: ir.OpGte,
	ast.EQ:  ir.OpEq,
	ast.LT:  ir.OpLt,
	ast.LTE: ir.OpLte,
}

// lowerChain lowers an operator chain as a left fold: `a - b - c` is lowered
// as `(a - b) - c`.
func (l *Lowerer) lowerChain(n *ast.Node, j *job) (ir.Value, types.Type, bool, error) {
	if len(n.Children) == 1 {
		return l.lowerNode(n.Children[0], j)
	}

	if len(n.Children)%2 == 0 {
		return 0, 0, false, report.RaiseICE(n.Span(), "%s chain has an even number of children", n.Kind)
	}

	acc, accType, err := l.lowerOperand(n.Children[0], n.Children[1], j)
	if err != nil {
		return 0, 0, false, err
	}

	for i := 1; i < len(n.Children); i += 2 {
		op, operand := n.Children[i], n.Children[i+1]

		code, ok := chainOps[op.Kind]
		if !ok {
			return 0, 0, false, report.RaiseICE(op.Span(), "unexpected operator node %s", op.Kind)
		}

		rhs, _, err := l.lowerOperand(operand, op, j)
		if err != nil {
			return 0, 0, false, err
		}

		// the instruction's type is that of the accumulated left-hand side
		acc, err = l.pushValue(ir.NewBinary(code, convType(accType), acc, rhs), report.NewSpanOver(n.Children[0].Span(), operand.Span()))
		if err != nil {
			return 0, 0, false, err
		}

		if code.IsComparison() {
			accType = types.Bool
		}
	}

	return acc, accType, true, nil
}

// lowerOperand lowers an operand of an operator.  Operands must have a value.
func (l *Lowerer) lowerOperand(operand, op *ast.Node, j *job) (ir.Value, types.Type, error) {
	v, typ, ok, err := l.lowerNode(operand, j)
	if err != nil {
		return 0, 0, err
	}

	if !ok {
		return 0, 0, report.Raise(
			report.KindType,
			operand.Span(),
			"operator `%s` cannot be applied to void",
			op.Text(l.src),
		)
	}

	return v, typ, nil
}

// lowerLet lowers a variable binding into a new variable slot.
func (l *Lowerer) lowerLet(n *ast.Node, j *job) error {
	nameNode, valueNode := n.Children[0], n.Children[1]
	name := nameNode.Text(l.src)

	v, typ, ok, err := l.lowerNode(valueNode, j)
	if err != nil {
		return err
	}

	if !ok {
		return report.Raise(
			report.KindUsage,
			valueNode.Span(),
			"cannot bind `%s` to a value of type void",
			name,
		)
	}

	slot, err := l.builder.PushVariable(name, convType(typ))
	if err != nil {
		return report.RaiseICE(n.Span(), "%s", err)
	}

	if _, err := l.push(ir.NewSetVar(slot, v), n.Span()); err != nil {
		return err
	}

	j.vars[name] = binding{typ: typ, slot: slot}
	return nil
}

// lowerCall lowers a function call.  The arguments are lowered in order
// before the callee is resolved.
func (l *Lowerer) lowerCall(n *ast.Node, j *job) (ir.Value, types.Type, bool, error) {
	callee, argsNode := n.Children[0], n.Children[1]

	args := make([]ir.Value, len(argsNode.Children))
	for i, arg := range argsNode.Children {
		v, _, ok, err := l.lowerNode(arg, j)
		if err != nil {
			return 0, 0, false, err
		}

		if !ok {
			return 0, 0, false, report.Raise(report.KindType, arg.Span(), "void values cannot be passed as arguments")
		}

		args[i] = v
	}

	name := callee.Text(l.src)
	fn, ok := l.funcs[name]
	if !ok {
		return 0, 0, false, report.Raise(report.KindName, callee.Span(), "function `%s` does not exist", name)
	}

	if len(args) != len(fn.sig.Params) {
		return 0, 0, false, report.Raise(
			report.KindArity,
			argsNode.Span(),
			"expected %d args, found %d",
			len(fn.sig.Params),
			len(args),
		)
	}

	v, hasValue, err := l.builder.PushInstruction(ir.NewCall(fn.id, convType(fn.sig.Return), args))
	if err != nil {
		return 0, 0, false, report.RaiseICE(n.Span(), "%s", err)
	}

	return v, fn.sig.Return, hasValue, nil
}

// lowerNestedFunc declares a nested function definition and queues its body.
// The builder is moved back to the enclosing body afterwards.
func (l *Lowerer) lowerNestedFunc(n *ast.Node, j *job) error {
	sig, err := resolve.Declare(n, l.src, l.types, &l.scopes)
	if err != nil {
		return err
	}

	if _, ok := l.funcs[sig.Name]; ok {
		return report.Raise(
			report.KindName,
			sig.NameSpan,
			"function `%s` is already defined",
			sig.Name,
		).Labelled("redefined here")
	}

	fn := l.declare(sig)
	if !sig.HasBody() {
		return l.switchTo(*j)
	}

	if err := l.enqueue(fn, sig.NameSpan); err != nil {
		return err
	}

	return l.switchTo(*j)
}
