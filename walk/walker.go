// Package walk implements the type checking pass.  The walker visits every
// function body against the signature table without modifying it, so it can
// be run any number of times over the same table.
package walk

import (
	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/pass"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/resolve"
	"github.com/lqd-lang/liquid/types"
)

// Walker is the type checker.  All of its state is scratch state for a single
// run of the pass.
type Walker struct {
	table *resolve.Table
	src   string
	types *types.Table

	// nested holds the signatures of the nested function definitions
	// encountered so far.
	nested *resolve.Table

	// queue is the list of function bodies still to be checked.  Bodies are
	// checked in the same order that they will be lowered in so that nested
	// functions become visible at the same point in both passes.
	queue []job

	scopes resolve.ScopeStack
}

// job is a function body waiting to be checked.
type job struct {
	sig  *resolve.Signature
	body []*ast.Node
}

// Check type checks every function body in the signature table.
func Check(table *resolve.Table, src string, tt *types.Table) error {
	w := &Walker{
		table:  table,
		src:    src,
		types:  tt,
		nested: resolve.NewTable(),
	}

	for _, sig := range table.Signatures() {
		if sig.HasBody() {
			w.queue = append(w.queue, job{sig: sig, body: sig.Body})
		}
	}

	for len(w.queue) > 0 {
		next := w.queue[0]
		w.queue = w.queue[1:]

		if err := w.checkFunc(next.sig, next.body); err != nil {
			return err
		}
	}

	return w.scopes.Balanced()
}

// Stage returns the type checking pass as a pipeline stage.
func Stage(tt *types.Table) pass.Check[*resolve.Table] {
	return pass.Check[*resolve.Table]{
		Name: "Type checking",
		Fn: func(table *resolve.Table, src *report.Source) error {
			return Check(table, src.Text, tt)
		},
	}
}

// -----------------------------------------------------------------------------

// env is the variable environment of a function body.  It is flat: a binding
// replaces any previous binding of the same name for the rest of the body.
type env map[string]types.Type

// checkFunc checks a function body against its signature.
func (w *Walker) checkFunc(sig *resolve.Signature, body []*ast.Node) error {
	vars := make(env, len(sig.Params))
	for _, param := range sig.Params {
		vars[param.Name] = param.Type
	}

	if len(body) == 0 {
		if sig.Return != types.Void {
			return report.Raise(
				report.KindType,
				sig.NameSpan,
				"expected %s, found void",
				sig.Return,
			).Labelled("this function returns nothing")
		}

		return nil
	}

	var lastType types.Type
	for _, node := range body {
		typ, err := w.typeOf(node, vars)
		if err != nil {
			return err
		}

		lastType = typ
	}

	if lastType != sig.Return {
		return mismatch(body[len(body)-1], sig.Return, lastType)
	}

	return nil
}

// typeOf computes the type of a node in the given environment.
func (w *Walker) typeOf(n *ast.Node, vars env) (types.Type, error) {
	switch n.Kind {
	case ast.Expr:
		if len(n.Children) == 0 {
			return types.Void, nil
		}

		return w.typeOf(n.Children[0], vars)
	case ast.Number:
		return types.Int, nil
	case ast.True, ast.False:
		return types.Bool, nil
	case ast.Ident:
		name := n.Text(w.src)
		if typ, ok := vars[name]; ok {
			return typ, nil
		}

		return 0, report.Raise(report.KindName, n.Span(), "variable `%s` does not exist", name)
	case ast.Sum, ast.Product, ast.BoolExpr:
		return w.typeOfChain(n, vars)
	case ast.Let:
		return w.checkLet(n, vars)
	case ast.FnCall:
		return w.typeOfCall(n, vars)
	case ast.FnDef:
		return w.checkNestedFunc(n)
	case ast.If:
		return 0, report.Raise(report.KindUsage, n.Span(), "if expressions are not supported")
	default:
		return 0, report.RaiseICE(n.Span(), "unexpected %s node in function body", n.Kind)
	}
}

// typeOfChain computes the type of an operator chain.  Every operand must
// have the same type as the left-most operand.
func (w *Walker) typeOfChain(n *ast.Node, vars env) (types.Type, error) {
	if len(n.Children) == 1 {
		return w.typeOf(n.Children[0], vars)
	}

	if len(n.Children)%2 == 0 {
		return 0, report.RaiseICE(n.Span(), "%s chain has an even number of children", n.Kind)
	}

	first := n.Children[0]
	firstType, err := w.typeOf(first, vars)
	if err != nil {
		return 0, err
	}

	if firstType == types.Void {
		return 0, report.Raise(
			report.KindType,
			first.Span(),
			"operator `%s` cannot be applied to void",
			n.Children[1].Text(w.src),
		)
	}

	for i := 2; i < len(n.Children); i += 2 {
		operand := n.Children[i]

		typ, err := w.typeOf(operand, vars)
		if err != nil {
			return 0, err
		}

		if typ != firstType {
			return 0, report.Raise(
				report.KindType,
				operand.Span(),
				"mismatched types: expected %s, found %s",
				firstType,
				typ,
			).Labelled("this should be a %s", firstType)
		}
	}

	if n.Kind == ast.BoolExpr {
		return types.Bool, nil
	}

	return firstType, nil
}

// checkLet checks a variable binding and adds it to the environment.
func (w *Walker) checkLet(n *ast.Node, vars env) (types.Type, error) {
	name, value := n.Children[0], n.Children[1]

	typ, err := w.typeOf(value, vars)
	if err != nil {
		return 0, err
	}

	if typ == types.Void {
		return 0, report.Raise(
			report.KindUsage,
			value.Span(),
			"cannot bind `%s` to a value of type void",
			name.Text(w.src),
		)
	}

	vars[name.Text(w.src)] = typ
	return types.Void, nil
}

// typeOfCall checks a function call.  The arguments are checked before the
// callee is resolved.
func (w *Walker) typeOfCall(n *ast.Node, vars env) (types.Type, error) {
	callee, args := n.Children[0], n.Children[1]

	argTypes := make([]types.Type, len(args.Children))
	for i, arg := range args.Children {
		typ, err := w.typeOf(arg, vars)
		if err != nil {
			return 0, err
		}

		argTypes[i] = typ
	}

	sig, ok := w.lookupFunc(callee.Text(w.src))
	if !ok {
		return 0, report.Raise(report.KindName, callee.Span(), "function `%s` does not exist", callee.Text(w.src))
	}

	if len(argTypes) != len(sig.Params) {
		return 0, report.Raise(
			report.KindArity,
			args.Span(),
			"expected %d args, found %d",
			len(sig.Params),
			len(argTypes),
		)
	}

	for i, param := range sig.Params {
		if _, ok := argTypes[i].Coerce(param.Type); !ok {
			return 0, mismatch(args.Children[i], param.Type, argTypes[i])
		}
	}

	return sig.Return, nil
}

// checkNestedFunc declares a nested function definition and queues its body.
// The definition itself has no value.
func (w *Walker) checkNestedFunc(n *ast.Node) (types.Type, error) {
	sig, err := resolve.Declare(n, w.src, w.types, &w.scopes)
	if err != nil {
		return 0, err
	}

	if _, ok := w.table.Lookup(sig.Name); ok {
		return 0, report.Raise(
			report.KindName,
			sig.NameSpan,
			"function `%s` is already defined",
			sig.Name,
		).Labelled("redefined here")
	}

	if err := w.nested.Define(sig); err != nil {
		return 0, err
	}

	w.queue = append(w.queue, job{sig: sig, body: sig.Body})
	return types.Void, nil
}

// lookupFunc looks up a function by name in both the signature table and the
// nested functions declared so far.
func (w *Walker) lookupFunc(name string) (*resolve.Signature, bool) {
	if sig, ok := w.table.Lookup(name); ok {
		return sig, true
	}

	return w.nested.Lookup(name)
}

// mismatch creates a type mismatch error labelled at the given node.
func mismatch(n *ast.Node, expected, found types.Type) error {
	return report.Raise(
		report.KindType,
		n.Span(),
		"expected %s, found %s",
		expected,
		found,
	).Labelled("this should be a %s", expected)
}
