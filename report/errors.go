package report

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a compile error.
type ErrorKind int

// Enumeration of the different kinds of compile errors.
const (
	KindLexical  ErrorKind = iota // Unrecognized input.
	KindSyntax                    // Grammar mismatch or premature end of file.
	KindName                      // Unknown or duplicate variables, functions and types.
	KindArity                     // Argument count mismatch.
	KindType                      // Type mismatches.
	KindUsage                     // Constructs not allowed (or not supported) where they appear.
	KindInternal                  // Compiler defects.
)

var errorKindNames = [...]string{
	KindLexical:  "lexical error",
	KindSyntax:   "syntax error",
	KindName:     "name error",
	KindArity:    "arity error",
	KindType:     "type error",
	KindUsage:    "usage error",
	KindInternal: "internal compiler error",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}

	return fmt.Sprintf("error kind %d", int(k))
}

// -----------------------------------------------------------------------------

// CompileError is an error in the compiled program (or, for KindInternal, in
// the compiler itself).  Compile errors are created without a source by the
// pass that detects them and have their source attached by the pass harness
// on the way out.
type CompileError struct {
	// The kind of error.
	Kind ErrorKind

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil if the error has
	// no meaningful location (eg. a missing main function).
	Span *TextSpan

	// Label is an optional message displayed under the erroneous source text.
	Label string

	// Source is the source text the span refers into.
	Source *Source
}

func (ce *CompileError) Error() string {
	if ce.Kind == KindInternal {
		return "internal compiler error: " + ce.Message
	}

	return ce.Message
}

// Is reports whether target is a compile error of the same kind with the same
// message.  This allows sentinel comparison via errors.Is.
func (ce *CompileError) Is(target error) bool {
	other, ok := target.(*CompileError)
	if !ok {
		return false
	}

	return other.Kind == ce.Kind && other.Message == ce.Message
}

// Labelled attaches a label message to the error and returns it.
func (ce *CompileError) Labelled(label string, args ...interface{}) *CompileError {
	ce.Label = fmt.Sprintf(label, args...)
	return ce
}

// Position returns the starting line and column of the error if both the span
// and the source are known.
func (ce *CompileError) Position() (Position, bool) {
	if ce.Span == nil || ce.Source == nil {
		return Position{}, false
	}

	return ce.Source.Position(ce.Span.Start), true
}

// Raise creates a new compile error.
func Raise(kind ErrorKind, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// RaiseICE creates a new internal compiler error.  These signal a defect in
// the compiler and should never be triggered by any input.
func RaiseICE(span *TextSpan, msg string, args ...interface{}) *CompileError {
	return Raise(KindInternal, span, msg, args...)
}

// -----------------------------------------------------------------------------

// WithSource attaches a source to every compile error in err's chain that does
// not already have one.  Errors which are not compile errors are returned
// unchanged.
func WithSource(err error, src *Source) error {
	var cerr *CompileError
	if errors.As(err, &cerr) && cerr.Source == nil {
		cerr.Source = src
	}

	return err
}

// KindOf returns the kind of a compile error.  It returns false if err is not
// a compile error.
func KindOf(err error) (ErrorKind, bool) {
	var cerr *CompileError
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}

	return 0, false
}

// IsInternal returns whether err is an internal compiler error.
func IsInternal(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindInternal
}
