// Package generate implements the IR builder contract on top of LLVM IR.
package generate

import (
	"fmt"

	lqdir "github.com/lqd-lang/liquid/ir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator builds an LLVM module through the IR builder contract.  I chose
// to use the library `llir/llvm` rather than bindings to LLVM itself so that
// building lqdc never requires a C toolchain.
type Generator struct {
	mod *ir.Module

	funcs []*function

	// blocks maps block IDs to the LLVM block and the function that holds it.
	blocks     []*ir.Block
	blockFuncs []*function

	currFunc  *function
	currBlock *ir.Block
}

// function is the generator's state for a single LLVM function.
type function struct {
	llFunc  *ir.Func
	linkage lqdir.Linkage
	params  []lqdir.Param
	rtType  lqdir.Type

	// vars are the variable slots: every variable (including the parameters)
	// lives in an alloca.  The parameter slots are created along with the
	// entry block.
	vars    []variable
	args    []lqdir.VariableID
	entry   *ir.Block
	values  []value.Value
	valTyps []lqdir.Type
}

// variable is a stack slot holding a variable.
type variable struct {
	slot *ir.InstAlloca
	typ  lqdir.Type
}

// NewGenerator creates a new generator with an empty module.
func NewGenerator() *Generator {
	return &Generator{mod: ir.NewModule()}
}

// Module returns the LLVM module generated so far.
func (g *Generator) Module() *ir.Module {
	return g.mod
}

// String renders the module as LLVM assembly.
func (g *Generator) String() string {
	return g.mod.String()
}

func (g *Generator) NewFunction(name string, linkage lqdir.Linkage, params []lqdir.Param, rtType lqdir.Type) lqdir.FunctionID {
	llParams := make([]*ir.Param, len(params))
	for i, param := range params {
		llParams[i] = ir.NewParam(param.Name, convType(param.Type))
	}

	llFunc := g.mod.NewFunc(name, convType(rtType), llParams...)

	// declarations keep the default linkage: LLVM resolves them at link time
	switch linkage {
	case lqdir.Public:
		llFunc.Linkage = enum.LinkageExternal
	case lqdir.Private:
		llFunc.Linkage = enum.LinkageInternal
	}

	// lqd does not use exceptions in any form and thus all functions are
	// marked `nounwind`
	if linkage != lqdir.External {
		llFunc.FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoUnwind}
	}

	g.funcs = append(g.funcs, &function{
		llFunc:  llFunc,
		linkage: linkage,
		params:  params,
		rtType:  rtType,
	})

	return lqdir.FunctionID(len(g.funcs) - 1)
}

func (g *Generator) PushBlock() (lqdir.BlockID, error) {
	if g.currFunc == nil {
		return 0, fmt.Errorf("no active function to add a block to")
	}

	if g.currFunc.linkage == lqdir.External {
		return 0, fmt.Errorf("cannot add a block to external function `%s`", g.currFunc.llFunc.Name())
	}

	id := lqdir.BlockID(len(g.blocks))
	block := g.currFunc.llFunc.NewBlock(fmt.Sprintf("b%d", id))

	// the first block is the entry block: spill the parameters into their
	// variable slots so they can be read like any other variable
	if g.currFunc.entry == nil {
		g.currFunc.entry = block

		for i, param := range g.currFunc.llFunc.Params {
			slot := block.NewAlloca(param.Type())
			block.NewStore(param, slot)

			g.currFunc.args = append(g.currFunc.args, lqdir.VariableID(len(g.currFunc.vars)))
			g.currFunc.vars = append(g.currFunc.vars, variable{slot: slot, typ: g.currFunc.params[i].Type})
		}
	}

	g.blocks = append(g.blocks, block)
	g.blockFuncs = append(g.blockFuncs, g.currFunc)
	return id, nil
}

func (g *Generator) SwitchToFunction(id lqdir.FunctionID) error {
	if id < 0 || int(id) >= len(g.funcs) {
		return fmt.Errorf("unknown function f%d", id)
	}

	g.currFunc = g.funcs[id]
	g.currBlock = nil
	return nil
}

func (g *Generator) SwitchToBlock(id lqdir.BlockID) error {
	if id < 0 || int(id) >= len(g.blocks) {
		return fmt.Errorf("unknown block b%d", id)
	}

	if g.blockFuncs[id] != g.currFunc {
		return fmt.Errorf("block b%d is not in the active function", id)
	}

	g.currBlock = g.blocks[id]
	return nil
}

func (g *Generator) PushVariable(name string, t lqdir.Type) (lqdir.VariableID, error) {
	if g.currFunc == nil || g.currFunc.entry == nil {
		return 0, fmt.Errorf("no entry block to allocate `%s` in", name)
	}

	// allocas are placed in the entry block before its terminator
	slot := g.currFunc.entry.NewAlloca(convType(t))

	g.currFunc.vars = append(g.currFunc.vars, variable{slot: slot, typ: t})
	return lqdir.VariableID(len(g.currFunc.vars) - 1), nil
}

func (g *Generator) FunctionArgs(id lqdir.FunctionID) ([]lqdir.VariableID, bool) {
	if id < 0 || int(id) >= len(g.funcs) {
		return nil, false
	}

	f := g.funcs[id]
	if len(f.params) > 0 && f.args == nil {
		// the parameter slots only exist once the entry block does
		return nil, false
	}

	return f.args, true
}

// -----------------------------------------------------------------------------

func (g *Generator) PushInstruction(op lqdir.Operation) (lqdir.Value, bool, error) {
	if g.currBlock == nil {
		return 0, false, fmt.Errorf("no active block to add an instruction to")
	}

	if g.currBlock.Term != nil {
		return 0, false, fmt.Errorf("block %s is already terminated", g.currBlock.Name())
	}

	args, err := g.operands(op)
	if err != nil {
		return 0, false, err
	}

	var result value.Value
	block := g.currBlock

	switch {
	case op.Code == lqdir.OpInteger:
		if op.Type.IsVoid() {
			return 0, false, fmt.Errorf("const: integer constant of type void")
		}

		result = constant.NewInt(convType(op.Type).(*types.IntType), op.IntegerValue())
	case op.Code.IsArithmetic():
		result = genArith(block, op, args[0], args[1])
	case op.Code.IsComparison():
		cmp := block.NewICmp(comparisonPred(op), args[0], args[1])
		result = block.NewZExt(cmp, convType(lqdir.U8))
	case op.Code == lqdir.OpGetVar:
		v, err := g.variable(op.Var)
		if err != nil {
			return 0, false, err
		}

		result = block.NewLoad(v.slot.ElemType, v.slot)
	case op.Code == lqdir.OpSetVar:
		v, err := g.variable(op.Var)
		if err != nil {
			return 0, false, err
		}

		block.NewStore(args[0], v.slot)
		return 0, false, nil
	case op.Code == lqdir.OpCall:
		if op.Func < 0 || int(op.Func) >= len(g.funcs) {
			return 0, false, fmt.Errorf("call: unknown function f%d", op.Func)
		}

		callee := g.funcs[op.Func]
		if len(callee.params) != len(args) {
			return 0, false, fmt.Errorf("call: `%s` takes %d args, got %d", callee.llFunc.Name(), len(callee.params), len(args))
		}

		call := block.NewCall(callee.llFunc, args...)
		if callee.rtType.IsVoid() {
			return 0, false, nil
		}

		result = call
	case op.Code == lqdir.OpReturn:
		if len(args) == 0 {
			block.NewRet(nil)
		} else {
			block.NewRet(args[0])
		}

		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("unsupported operation: %s", op.Code)
	}

	g.currFunc.values = append(g.currFunc.values, result)
	g.currFunc.valTyps = append(g.currFunc.valTyps, op.ResultType())
	return lqdir.Value(len(g.currFunc.values) - 1), true, nil
}

// operands looks up the LLVM values of an operation's arguments.
func (g *Generator) operands(op lqdir.Operation) ([]value.Value, error) {
	if op.Code.IsBinary() && len(op.Args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 operands, got %d", op.Code, len(op.Args))
	}

	args := make([]value.Value, len(op.Args))
	for i, arg := range op.Args {
		if arg < 0 || int(arg) >= len(g.currFunc.values) {
			return nil, fmt.Errorf("%s: undefined value %%%d", op.Code, arg)
		}

		args[i] = g.currFunc.values[arg]
	}

	return args, nil
}

func (g *Generator) variable(id lqdir.VariableID) (variable, error) {
	if id < 0 || int(id) >= len(g.currFunc.vars) {
		return variable{}, fmt.Errorf("undefined variable v%d", id)
	}

	return g.currFunc.vars[id], nil
}

// genArith generates an arithmetic instruction.  Division is signed or
// unsigned depending on the operand type.
func genArith(block *ir.Block, op lqdir.Operation, lhs, rhs value.Value) value.Value {
	switch op.Code {
	case lqdir.OpAdd:
		return block.NewAdd(lhs, rhs)
	case lqdir.OpSub:
		return block.NewSub(lhs, rhs)
	case lqdir.OpMul:
		return block.NewMul(lhs, rhs)
	default:
		if op.Type.Signed {
			return block.NewSDiv(lhs, rhs)
		}

		return block.NewUDiv(lhs, rhs)
	}
}

var signedPreds = map[lqdir.OpCode]enum.IPred{
	lqdir.OpGt:  enum.IPredSGT,
	lqdir.OpGte: enum.IPredSGE,
	lqdir.OpEq:  enum.IPredEQ,
	lqdir.OpLt:  enum.IPredSLT,
	lqdir.OpLte: enum.IPredSLE,
}

var unsignedPreds = map[lqdir.OpCode]enum.IPred{
	lqdir.OpGt:  enum.IPredUGT,
	lqdir.OpGte: enum.IPredUGE,
	lqdir.OpEq:  enum.IPredEQ,
	lqdir.OpLt:  enum.IPredULT,
	lqdir.OpLte: enum.IPredULE,
}

func comparisonPred(op lqdir.Operation) enum.IPred {
	if op.Type.Signed {
		return signedPreds[op.Code]
	}

	return unsignedPreds[op.Code]
}

// convType converts an IR type to an LLVM type.  LLVM integers carry no
// signedness: it is recovered from the IR type by the instructions instead.
func convType(t lqdir.Type) types.Type {
	if t.IsVoid() {
		return types.Void
	}

	return types.NewInt(uint64(t.Bits))
}

// Verify checks that every block of every defined function is terminated.
func (g *Generator) Verify() error {
	for _, f := range g.funcs {
		if f.linkage == lqdir.External {
			continue
		}

		if len(f.llFunc.Blocks) == 0 {
			return fmt.Errorf("function `%s` has no blocks", f.llFunc.Name())
		}

		for _, block := range f.llFunc.Blocks {
			if block.Term == nil {
				return fmt.Errorf("block %s of function `%s` is not terminated", block.Name(), f.llFunc.Name())
			}
		}
	}

	return nil
}
