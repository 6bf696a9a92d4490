package resolve

import (
	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/pass"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/types"
)

// collector collects function signatures from the top level of a syntax tree.
type collector struct {
	src    string
	types  *types.Table
	table  *Table
	scopes ScopeStack
}

// Collect walks the top-level declarations of a syntax tree once and records
// the signature of every function.  Function bodies are held in the signatures
// for later passes: they are not visited.
func Collect(root *ast.Node, src string, tt *types.Table) (*Table, error) {
	if root.Kind != ast.Root {
		return nil, report.RaiseICE(root.Span(), "signature collection requires a root node, got %s", root.Kind)
	}

	c := &collector{src: src, types: tt, table: NewTable()}

	for _, top := range root.Children {
		if err := c.collectTop(top); err != nil {
			return nil, err
		}
	}

	if err := c.scopes.Balanced(); err != nil {
		return nil, err
	}

	return c.table, nil
}

// Stage returns the signature collection pass as a pipeline stage.
func Stage(tt *types.Table) pass.Stage[*ast.Node, *Table] {
	return pass.Stage[*ast.Node, *Table]{
		Name: "Resolving",
		Fn: func(root *ast.Node, src *report.Source) (*Table, error) {
			return Collect(root, src.Text, tt)
		},
	}
}

// collectTop collects the signatures of a top level node.
func (c *collector) collectTop(n *ast.Node) error {
	switch n.Kind {
	case ast.Extern:
		defer c.scopes.Push(ScopeExtern)()

		for _, child := range n.Children {
			if err := c.collectTop(child); err != nil {
				return err
			}
		}

		return nil
	case ast.FnDef, ast.FnDecl:
		sig, err := Declare(n, c.src, c.types, &c.scopes)
		if err != nil {
			return err
		}

		return c.table.Define(sig)
	default:
		return report.RaiseICE(n.Span(), "unexpected %s node at top level", n.Kind)
	}
}

// -----------------------------------------------------------------------------

// Declare builds the signature of a function definition or declaration node.
// The linkage is computed from the function's name and the scope markers on
// the given stack.
func Declare(n *ast.Node, src string, tt *types.Table, scopes *ScopeStack) (*Signature, error) {
	if (n.Kind != ast.FnDef && n.Kind != ast.FnDecl) || len(n.Children) < 3 {
		return nil, report.RaiseICE(n.Span(), "malformed function node: %s", n.Kind)
	}

	nameNode, argsNode, retNode := n.Children[0], n.Children[1], n.Children[2]

	sig := &Signature{
		Name:       nameNode.Text(src),
		NameSpan:   nameNode.Span(),
		ReturnSpan: retNode.Span(),
	}

	inExtern := scopes.In(ScopeExtern)
	switch {
	case n.Kind == ast.FnDecl && inExtern:
		sig.Linkage = External
	case n.Kind == ast.FnDecl:
		return nil, report.Raise(
			report.KindUsage,
			n.Span(),
			"function declaration not allowed outside of extern",
		).Labelled("add a body or move this into an extern block")
	case inExtern || sig.Name == common.MainFuncName:
		sig.Linkage = Public
	default:
		sig.Linkage = Private
	}

	params, err := declareParams(argsNode, src, tt)
	if err != nil {
		return nil, err
	}
	sig.Params = params

	rtType, ok := tt.Lookup(retNode.Text(src))
	if !ok {
		return nil, report.Raise(report.KindName, retNode.Span(), "unknown return type `%s`", retNode.Text(src))
	}
	sig.Return = rtType

	if n.Kind == ast.FnDef {
		sig.Body = n.Children[3:]
	}

	return sig, nil
}

// declareParams resolves the parameters of an argument set node.  The node's
// children alternate between parameter names and type names.
func declareParams(argsNode *ast.Node, src string, tt *types.Table) ([]Param, error) {
	if len(argsNode.Children)%2 != 0 {
		return nil, report.RaiseICE(argsNode.Span(), "argument set has an odd number of children")
	}

	takenNames := make(map[string]struct{})
	params := make([]Param, 0, len(argsNode.Children)/2)

	for i := 0; i < len(argsNode.Children); i += 2 {
		nameNode, typeNode := argsNode.Children[i], argsNode.Children[i+1]
		name := nameNode.Text(src)

		if _, ok := takenNames[name]; ok {
			return nil, report.Raise(report.KindName, nameNode.Span(), "multiple parameters named `%s`", name)
		}
		takenNames[name] = struct{}{}

		typ, ok := tt.Lookup(typeNode.Text(src))
		if !ok {
			return nil, report.Raise(report.KindName, typeNode.Span(), "unknown type `%s`", typeNode.Text(src))
		}

		if typ == types.Void {
			return nil, report.Raise(report.KindType, typeNode.Span(), "parameter `%s` cannot have type void", name)
		}

		params = append(params, Param{Name: name, Type: typ, Span: nameNode.Span()})
	}

	return params, nil
}

// -----------------------------------------------------------------------------

// RequireMain checks that the program defines a main function.
func RequireMain(table *Table) error {
	sig, ok := table.Lookup(common.MainFuncName)
	if !ok {
		return report.Raise(report.KindName, nil, "missing main function")
	}

	if !sig.HasBody() {
		return report.Raise(report.KindUsage, sig.NameSpan, "main function must be defined, not declared")
	}

	return nil
}

// MainCheck is the missing main function check as a pipeline stage.
var MainCheck = pass.Check[*Table]{
	Name: "Checking main",
	Fn: func(table *Table, _ *report.Source) error {
		return RequireMain(table)
	},
}
