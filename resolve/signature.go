package resolve

import (
	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/types"
)

// Linkage is the visibility and emission classification of a function.
type Linkage int

// Enumeration of linkages.
const (
	Private  Linkage = iota // Only visible within the module.
	Public                  // Defined in the module and externally visible.
	External                // Defined elsewhere: callable but not emitted.
)

func (l Linkage) String() string {
	switch l {
	case Private:
		return "private"
	case Public:
		return "public"
	case External:
		return "external"
	default:
		return "linkage(?)"
	}
}

// Param is a function parameter.
type Param struct {
	Name string
	Type types.Type

	// Span is the span of the parameter's name.
	Span *report.TextSpan
}

// Signature is the externally visible contract of a function together with
// its body, which is held until lowering takes it.
type Signature struct {
	Name     string
	NameSpan *report.TextSpan

	Linkage Linkage
	Params  []Param

	Return     types.Type
	ReturnSpan *report.TextSpan

	// Body is the list of the function's body expressions.  It is nil for
	// declarations and for functions whose body has already been lowered.
	Body []*ast.Node
}

// TakeBody returns the function's body and clears it from the signature.
func (s *Signature) TakeBody() []*ast.Node {
	body := s.Body
	s.Body = nil
	return body
}

// HasBody returns whether the function is emitted locally.
func (s *Signature) HasBody() bool {
	return s.Linkage != External
}

// -----------------------------------------------------------------------------

// Table is the signature table: it maps function names to signatures and
// remembers the order in which the functions were defined.
type Table struct {
	order  []*Signature
	byName map[string]*Signature
}

// NewTable creates a new empty signature table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Signature)}
}

// Define adds a signature to the table.  It fails if a function with the same
// name is already defined.
func (t *Table) Define(sig *Signature) error {
	if _, ok := t.byName[sig.Name]; ok {
		return report.Raise(
			report.KindName,
			sig.NameSpan,
			"function `%s` is already defined",
			sig.Name,
		).Labelled("redefined here")
	}

	t.byName[sig.Name] = sig
	t.order = append(t.order, sig)
	return nil
}

// Lookup looks up a signature by function name.
func (t *Table) Lookup(name string) (*Signature, bool) {
	sig, ok := t.byName[name]
	return sig, ok
}

// Signatures returns every signature in definition order.
func (t *Table) Signatures() []*Signature {
	return t.order
}

// Len returns the number of signatures in the table.
func (t *Table) Len() int {
	return len(t.order)
}
