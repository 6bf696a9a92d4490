package resolve

import "github.com/lqd-lang/liquid/report"

// ScopeKind is the kind of a lexical scope marker.
type ScopeKind int

const (
	ScopeExtern ScopeKind = iota
)

// ScopeStack is the stack of lexical scope markers.  It is only used to
// compute the linkage of the declarations within a scope: it holds no
// variables.
type ScopeStack struct {
	scopes []ScopeKind
}

// Push pushes a scope marker and returns the function which pops it.  The pop
// function should always be deferred so that the marker does not leak into
// sibling subtrees when a traversal exits early.
func (s *ScopeStack) Push(kind ScopeKind) func() {
	s.scopes = append(s.scopes, kind)
	depth := len(s.scopes)

	return func() {
		// an out of order pop would leave the stack unbalanced: leave the stack
		// untouched so that Balanced reports it
		if len(s.scopes) == depth {
			s.scopes = s.scopes[:depth-1]
		}
	}
}

// In returns whether the marker of the given kind is anywhere on the stack.
func (s *ScopeStack) In(kind ScopeKind) bool {
	for _, scope := range s.scopes {
		if scope == kind {
			return true
		}
	}

	return false
}

// Depth returns the number of markers on the stack.
func (s *ScopeStack) Depth() int {
	return len(s.scopes)
}

// Balanced returns an internal compiler error if any scope markers remain on
// the stack.
func (s *ScopeStack) Balanced() error {
	if len(s.scopes) != 0 {
		return report.RaiseICE(nil, "scope stack unbalanced: %d markers remaining", len(s.scopes))
	}

	return nil
}
