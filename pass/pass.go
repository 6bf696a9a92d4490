// Package pass composes the compiler's passes into a pipeline.  A pipeline
// threads the source text and the result of the previous stage through an
// ordered sequence of stages, stopping at the first stage that fails.
package pass

import "github.com/lqd-lang/liquid/report"

// None is the result of the empty stage at the start of a pipeline and the
// auxiliary argument of a pipeline that has none.
type None struct{}

// Observer is notified at the beginning and end of every stage that runs.
type Observer interface {
	BeginStage(name string)
	EndStage(name string, err error)
}

// Runner is the state of a pipeline: the source text, the result of the last
// stage (of type P), the auxiliary argument (of type A) and the first error.
type Runner[P, A any] struct {
	src      *report.Source
	prev     P
	arg      A
	err      error
	observer Observer
}

// New creates a new pipeline over the given source.
func New(src *report.Source) *Runner[None, None] {
	return &Runner[None, None]{src: src}
}

// Observe sets the observer of the pipeline and returns the pipeline.
func (r *Runner[P, A]) Observe(o Observer) *Runner[P, A] {
	r.observer = o
	return r
}

// Source returns the source text the pipeline runs over.
func (r *Runner[P, A]) Source() *report.Source {
	return r.src
}

// Result returns the result of the last stage that ran along with the first
// error encountered.  If there is an error, the result is the zero value.
func (r *Runner[P, A]) Result() (P, error) {
	if r.err != nil {
		var zero P
		return zero, r.err
	}

	return r.prev, nil
}

// Err returns the first error encountered by the pipeline.
func (r *Runner[P, A]) Err() error {
	return r.err
}

// SetArg sets the auxiliary argument threaded to every subsequent stage that
// requests one.  The argument is shared by reference: a stage that mutates it
// mutates it for every later stage.
func SetArg[P, A, B any](r *Runner[P, A], arg B) *Runner[P, B] {
	return &Runner[P, B]{src: r.src, prev: r.prev, arg: arg, err: r.err, observer: r.observer}
}

// -----------------------------------------------------------------------------

// Stage is a transforming stage which consumes the result of type P produced
// by its predecessor and produces a new result of type N.
type Stage[P, N any] struct {
	Name string
	Fn   func(prev P, src *report.Source) (N, error)
}

// ArgStage is a transforming stage which also requires the auxiliary argument.
type ArgStage[P, A, N any] struct {
	Name string
	Fn   func(prev P, arg A, src *report.Source) (N, error)
}

// Check is a checking stage: it validates the result of its predecessor and
// passes it on unchanged.
type Check[P any] struct {
	Name string
	Fn   func(prev P, src *report.Source) error
}

// ArgCheck is a checking stage which also requires the auxiliary argument.
type ArgCheck[P, A any] struct {
	Name string
	Fn   func(prev P, arg A, src *report.Source) error
}

// Run runs a transforming stage.
func Run[P, A, N any](r *Runner[P, A], s Stage[P, N]) *Runner[N, A] {
	return RunWithArg(r, ArgStage[P, A, N]{
		Name: s.Name,
		Fn: func(prev P, _ A, src *report.Source) (N, error) {
			return s.Fn(prev, src)
		},
	})
}

// RunWithArg runs a transforming stage which requires the auxiliary argument.
func RunWithArg[P, A, N any](r *Runner[P, A], s ArgStage[P, A, N]) *Runner[N, A] {
	next := &Runner[N, A]{src: r.src, arg: r.arg, err: r.err, observer: r.observer}
	if r.err != nil {
		return next
	}

	next.begin(s.Name)
	result, err := s.Fn(r.prev, r.arg, r.src)
	next.end(s.Name, err)

	if err != nil {
		next.err = report.WithSource(err, r.src)
	} else {
		next.prev = result
	}

	return next
}

// Inject runs a checking stage.
func Inject[P, A any](r *Runner[P, A], c Check[P]) *Runner[P, A] {
	return InjectWithArg(r, ArgCheck[P, A]{
		Name: c.Name,
		Fn: func(prev P, _ A, src *report.Source) error {
			return c.Fn(prev, src)
		},
	})
}

// InjectWithArg runs a checking stage which requires the auxiliary argument.
func InjectWithArg[P, A any](r *Runner[P, A], c ArgCheck[P, A]) *Runner[P, A] {
	if r.err != nil {
		return r
	}

	r.begin(c.Name)
	err := c.Fn(r.prev, r.arg, r.src)
	r.end(c.Name, err)

	if err != nil {
		r.err = report.WithSource(err, r.src)
	}

	return r
}

func (r *Runner[P, A]) begin(name string) {
	if r.observer != nil {
		r.observer.BeginStage(name)
	}
}

func (r *Runner[P, A]) end(name string, err error) {
	if r.observer != nil {
		r.observer.EndStage(name, err)
	}
}
