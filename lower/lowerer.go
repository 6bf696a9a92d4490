// Package lower implements the lowering pass: it converts the bodies of the
// functions in a signature table into IR through an IR builder.
package lower

import (
	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/ir"
	"github.com/lqd-lang/liquid/pass"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/resolve"
	"github.com/lqd-lang/liquid/types"
)

// Output is the result of lowering.
type Output struct {
	// Functions maps the name of every function (nested ones included) to its
	// IR function.
	Functions map[string]ir.FunctionID
}

// Lowerer is responsible for lowering a program into IR.  The lowerer never
// lowers a function body as soon as it finds it: it queues the body on the
// compile queue instead so that every function is declared before any body
// refers to it.
type Lowerer struct {
	table   *resolve.Table
	src     string
	types   *types.Table
	builder ir.Builder

	// funcs maps function names to their IR functions and signatures.
	funcs map[string]function

	// queue is the compile queue.  It is drained in FIFO order.
	queue []job

	scopes resolve.ScopeStack
}

// function is a declared IR function.
type function struct {
	id  ir.FunctionID
	sig *resolve.Signature
}

// job is a compile queue entry: a function body waiting to be lowered into
// the given function and block.
type job struct {
	fn    function
	block ir.BlockID
	nodes []*ast.Node
	vars  env
}

// binding is a variable bound in a function body.
type binding struct {
	typ  types.Type
	slot ir.VariableID
}

// env is the variable environment of a function body.  It is flat: a binding
// replaces any previous binding of the same name.
type env map[string]binding

// Lower lowers every function in the signature table.  The bodies of the
// signatures are taken as they are queued.  If lowering fails, the contents
// of the builder must be discarded.
func Lower(table *resolve.Table, src string, tt *types.Table, builder ir.Builder) (*Output, error) {
	l := &Lowerer{
		table:   table,
		src:     src,
		types:   tt,
		builder: builder,
		funcs:   make(map[string]function),
	}

	// declare every function before any body is visited
	for _, sig := range table.Signatures() {
		l.declare(sig)
	}

	for _, sig := range table.Signatures() {
		if !sig.HasBody() {
			continue
		}

		if err := l.enqueue(l.funcs[sig.Name], sig.NameSpan); err != nil {
			return nil, err
		}
	}

	for len(l.queue) > 0 {
		next := l.queue[0]
		l.queue = l.queue[1:]

		if err := l.lowerJob(next); err != nil {
			return nil, err
		}
	}

	if err := l.scopes.Balanced(); err != nil {
		return nil, err
	}

	out := &Output{Functions: make(map[string]ir.FunctionID, len(l.funcs))}
	for name, fn := range l.funcs {
		out.Functions[name] = fn.id
	}

	return out, nil
}

// Stage returns the lowering pass as a pipeline stage.  The stage requires the
// IR builder as its argument.
func Stage(tt *types.Table) pass.ArgStage[*resolve.Table, ir.Builder, *Output] {
	return pass.ArgStage[*resolve.Table, ir.Builder, *Output]{
		Name: "Lowering",
		Fn: func(table *resolve.Table, builder ir.Builder, src *report.Source) (*Output, error) {
			return Lower(table, src.Text, tt, builder)
		},
	}
}

// -----------------------------------------------------------------------------

// declare creates the IR function for a signature.
func (l *Lowerer) declare(sig *resolve.Signature) function {
	params := make([]ir.Param, len(sig.Params))
	for i, param := range sig.Params {
		params[i] = ir.Param{Name: param.Name, Type: convType(param.Type)}
	}

	fn := function{
		id:  l.builder.NewFunction(sig.Name, convLinkage(sig.Linkage), params, convType(sig.Return)),
		sig: sig,
	}

	l.funcs[sig.Name] = fn
	return fn
}

// enqueue creates the entry block of a function, binds its parameters and
// queues its body.  It leaves the builder positioned at the new block.
func (l *Lowerer) enqueue(fn function, span *report.TextSpan) error {
	if err := l.builder.SwitchToFunction(fn.id); err != nil {
		return report.RaiseICE(span, "%s", err)
	}

	block, err := l.builder.PushBlock()
	if err != nil {
		return report.RaiseICE(span, "%s", err)
	}

	if err := l.builder.SwitchToBlock(block); err != nil {
		return report.RaiseICE(span, "%s", err)
	}

	args, ok := l.builder.FunctionArgs(fn.id)
	if !ok || len(args) != len(fn.sig.Params) {
		return report.RaiseICE(span, "missing arguments of function `%s`", fn.sig.Name)
	}

	vars := make(env, len(args))
	for i, param := range fn.sig.Params {
		vars[param.Name] = binding{typ: param.Type, slot: args[i]}
	}

	l.queue = append(l.queue, job{fn: fn, block: block, nodes: fn.sig.TakeBody(), vars: vars})
	return nil
}

// lowerJob lowers a queued function body and terminates it.
func (l *Lowerer) lowerJob(j job) error {
	if err := l.switchTo(j); err != nil {
		return err
	}

	var last ir.Value
	var hasValue bool
	for _, node := range j.nodes {
		v, _, ok, err := l.lowerNode(node, &j)
		if err != nil {
			return err
		}

		last, hasValue = v, ok
	}

	sig := j.fn.sig
	switch {
	case sig.Return == types.Void:
		_, err := l.push(ir.NewReturn(), sig.NameSpan)
		return err
	case hasValue:
		_, err := l.push(ir.NewReturn(last), sig.NameSpan)
		return err
	default:
		return report.RaiseICE(sig.NameSpan, "function `%s` has no value to return", sig.Name)
	}
}

// switchTo moves the builder to the function and block of a job.
func (l *Lowerer) switchTo(j job) error {
	if err := l.builder.SwitchToFunction(j.fn.id); err != nil {
		return report.RaiseICE(j.fn.sig.NameSpan, "%s", err)
	}

	if err := l.builder.SwitchToBlock(j.block); err != nil {
		return report.RaiseICE(j.fn.sig.NameSpan, "%s", err)
	}

	return nil
}

// push adds an instruction to the active block.  Builder failures are compiler
// defects.
func (l *Lowerer) push(op ir.Operation, span *report.TextSpan) (ir.Value, error) {
	v, _, err := l.builder.PushInstruction(op)
	if err != nil {
		return 0, report.RaiseICE(span, "%s", err)
	}

	return v, nil
}

// pushValue adds an instruction that must produce a value.
func (l *Lowerer) pushValue(op ir.Operation, span *report.TextSpan) (ir.Value, error) {
	v, ok, err := l.builder.PushInstruction(op)
	if err != nil {
		return 0, report.RaiseICE(span, "%s", err)
	}

	if !ok {
		return 0, report.RaiseICE(span, "%s produced no value", op.Code)
	}

	return v, nil
}

// -----------------------------------------------------------------------------

// convType converts an lqd type to an IR type.
func convType(t types.Type) ir.Type {
	switch t.Default() {
	case types.Int:
		return ir.I64
	case types.Uint:
		return ir.U64
	case types.Bool:
		return ir.U8
	default:
		return ir.Void
	}
}

// convLinkage converts a function linkage to an IR linkage.
func convLinkage(linkage resolve.Linkage) ir.Linkage {
	switch linkage {
	case resolve.Public:
		return ir.Public
	case resolve.External:
		return ir.External
	default:
		return ir.Private
	}
}
