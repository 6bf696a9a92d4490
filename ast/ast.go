package ast

import (
	"fmt"
	"strings"

	"github.com/lqd-lang/liquid/report"
)

// NodeKind enumerates every syntactic category of the concrete syntax tree.
type NodeKind int

const (
	Ident NodeKind = iota
	Number
	Add
	Sub
	Mul
	Div
	GT
	GTE
	EQ
	LT
	LTE
	Product
	Sum
	BoolExpr
	Expr
	Root
	Let
	FnDef
	FnDecl
	FnCall
	FnDefArgs
	FnCallArgs
	Extern
	True
	False
	If
)

var nodeKindNames = [...]string{
	Ident:      "ident",
	Number:     "number",
	Add:        "add",
	Sub:        "sub",
	Mul:        "mul",
	Div:        "div",
	GT:         "gt",
	GTE:        "gte",
	EQ:         "eq",
	LT:         "lt",
	LTE:        "lte",
	Product:    "product",
	Sum:        "sum",
	BoolExpr:   "bool-expr",
	Expr:       "expr",
	Root:       "root",
	Let:        "let",
	FnDef:      "fn-def",
	FnDecl:     "fn-decl",
	FnCall:     "fn-call",
	FnDefArgs:  "def-args",
	FnCallArgs: "call-args",
	Extern:     "extern",
	True:       "true",
	False:      "false",
	If:         "if",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}

	return fmt.Sprintf("node(%d)", int(k))
}

// IsOperator returns whether the kind is a binary operator.
func (k NodeKind) IsOperator() bool {
	return Add <= k && k <= LTE
}

// IsComparison returns whether the kind is a comparison operator.
func (k NodeKind) IsComparison() bool {
	return GT <= k && k <= LTE
}

// IsChain returns whether the kind is an operator chain: its children
// alternate between operands and operators.
func (k NodeKind) IsChain() bool {
	return k == Product || k == Sum || k == BoolExpr
}

// IsLeaf returns whether nodes of the kind are single tokens.
func (k NodeKind) IsLeaf() bool {
	return k == Ident || k == Number || k == True || k == False || k.IsOperator()
}

// -----------------------------------------------------------------------------

// Node is a node of the concrete syntax tree.  Nodes reference the source text
// by byte range and never hold copies of it: the source must outlive the tree.
type Node struct {
	Kind NodeKind

	// Start and End are the byte range [Start, End) the node covers.
	Start, End int

	Children []*Node
}

// NewNode creates a node spanning from its first to its last child.  A node
// without children is zero-width at offset 0; use NewLeaf for those.
func NewNode(kind NodeKind, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children}

	if len(children) > 0 {
		n.Start = children[0].Start
		n.End = children[len(children)-1].End
	}

	return n
}

// NewLeaf creates a node over an explicit byte range.
func NewLeaf(kind NodeKind, start, end int) *Node {
	return &Node{Kind: kind, Start: start, End: end}
}

// Span returns the span of the node.
func (n *Node) Span() *report.TextSpan {
	return report.NewSpan(n.Start, n.End)
}

// Text returns the source text the node covers.
func (n *Node) Text(src string) string {
	return src[n.Start:n.End]
}

// -----------------------------------------------------------------------------

// Dump renders a tree as an S-expression.  Leaves are rendered as their
// source text; every other node as `(kind child...)`.
func Dump(n *Node, src string) string {
	var b strings.Builder
	dump(&b, n, src)
	return b.String()
}

func dump(b *strings.Builder, n *Node, src string) {
	if n.Kind.IsLeaf() {
		b.WriteString(n.Text(src))
		return
	}

	b.WriteByte('(')
	b.WriteString(n.Kind.String())

	for _, child := range n.Children {
		b.WriteByte(' ')
		dump(b, child, src)
	}

	b.WriteByte(')')
}
