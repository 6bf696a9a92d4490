package ir

import "fmt"

// Builder constructs an IR module.  Instructions and variables are always
// added to the active function and block, which are selected with
// SwitchToFunction and SwitchToBlock.
type Builder interface {
	// NewFunction creates a new function.  Functions with external linkage
	// are declarations: they can be called but have no blocks.
	NewFunction(name string, linkage Linkage, params []Param, rtType Type) FunctionID

	// PushBlock creates a new block in the active function.  It does not
	// switch to the block.
	PushBlock() (BlockID, error)

	SwitchToFunction(id FunctionID) error
	SwitchToBlock(id BlockID) error

	// PushInstruction appends an operation to the active block.  It returns
	// the value the operation produces and whether it produces one.
	PushInstruction(op Operation) (Value, bool, error)

	// PushVariable creates a new variable slot in the active function.
	PushVariable(name string, t Type) (VariableID, error)

	// FunctionArgs returns the variable slots bound to the parameters of a
	// function in parameter order.
	FunctionArgs(id FunctionID) ([]VariableID, bool)
}

// -----------------------------------------------------------------------------

// Function is a function of an in-memory module.
type Function struct {
	ID      FunctionID
	Name    string
	Linkage Linkage
	Params  []Param
	Return  Type

	// Args are the variables bound to the parameters.
	Args []VariableID

	// Vars are all the function's variables, parameters first.
	Vars []Variable

	Blocks []*Block

	nextValue Value
}

// Variable is a variable slot of a function.
type Variable struct {
	ID   VariableID
	Name string
	Type Type
}

// Block is a basic block.
type Block struct {
	ID     BlockID
	Instrs []Instruction
}

// Instruction is an operation placed in a block along with the value it
// produces, if any.
type Instruction struct {
	Op        Operation
	Result    Value
	HasResult bool
}

// Terminated returns whether the block ends with a return.
func (b *Block) Terminated() bool {
	return len(b.Instrs) > 0 && b.Instrs[len(b.Instrs)-1].Op.Code == OpReturn
}

// ModuleBuilder builds an in-memory module.
type ModuleBuilder struct {
	name  string
	funcs []*Function

	// blocks maps block IDs to the block and the function that holds it.
	blocks     []*Block
	blockFuncs []*Function

	currFunc  *Function
	currBlock *Block
}

// NewModuleBuilder creates a new builder for a module of the given name.
func NewModuleBuilder(name string) *ModuleBuilder {
	return &ModuleBuilder{name: name}
}

func (mb *ModuleBuilder) NewFunction(name string, linkage Linkage, params []Param, rtType Type) FunctionID {
	f := &Function{
		ID:      FunctionID(len(mb.funcs)),
		Name:    name,
		Linkage: linkage,
		Params:  params,
		Return:  rtType,
	}

	for i, param := range params {
		f.Args = append(f.Args, VariableID(i))
		f.Vars = append(f.Vars, Variable{ID: VariableID(i), Name: param.Name, Type: param.Type})
	}

	mb.funcs = append(mb.funcs, f)
	return f.ID
}

func (mb *ModuleBuilder) PushBlock() (BlockID, error) {
	if mb.currFunc == nil {
		return 0, fmt.Errorf("no active function to add a block to")
	}

	if mb.currFunc.Linkage == External {
		return 0, fmt.Errorf("cannot add a block to external function `%s`", mb.currFunc.Name)
	}

	b := &Block{ID: BlockID(len(mb.blocks))}
	mb.blocks = append(mb.blocks, b)
	mb.blockFuncs = append(mb.blockFuncs, mb.currFunc)
	mb.currFunc.Blocks = append(mb.currFunc.Blocks, b)

	return b.ID, nil
}

func (mb *ModuleBuilder) SwitchToFunction(id FunctionID) error {
	if id < 0 || int(id) >= len(mb.funcs) {
		return fmt.Errorf("unknown function f%d", id)
	}

	mb.currFunc = mb.funcs[id]
	mb.currBlock = nil
	return nil
}

func (mb *ModuleBuilder) SwitchToBlock(id BlockID) error {
	if id < 0 || int(id) >= len(mb.blocks) {
		return fmt.Errorf("unknown block b%d", id)
	}

	if mb.blockFuncs[id] != mb.currFunc {
		return fmt.Errorf("block b%d is not in the active function", id)
	}

	mb.currBlock = mb.blocks[id]
	return nil
}

func (mb *ModuleBuilder) PushInstruction(op Operation) (Value, bool, error) {
	if mb.currBlock == nil {
		return 0, false, fmt.Errorf("no active block to add an instruction to")
	}

	if mb.currBlock.Terminated() {
		return 0, false, fmt.Errorf("block b%d is already terminated", mb.currBlock.ID)
	}

	if err := mb.validate(op); err != nil {
		return 0, false, err
	}

	instr := Instruction{Op: op}
	if !op.ResultType().IsVoid() {
		instr.Result = mb.currFunc.nextValue
		instr.HasResult = true
		mb.currFunc.nextValue++
	}

	mb.currBlock.Instrs = append(mb.currBlock.Instrs, instr)
	return instr.Result, instr.HasResult, nil
}

// validate checks the operands of an operation against the active function.
func (mb *ModuleBuilder) validate(op Operation) error {
	for _, arg := range op.Args {
		if arg < 0 || arg >= mb.currFunc.nextValue {
			return fmt.Errorf("%s: undefined value %%%d", op.Code, arg)
		}
	}

	switch {
	case op.Code == OpInteger:
		if len(op.Bytes) != op.Type.Size() {
			return fmt.Errorf("const: %d bytes given for %s", len(op.Bytes), op.Type)
		}
	case op.Code.IsBinary():
		if len(op.Args) != 2 {
			return fmt.Errorf("%s: expected 2 operands, got %d", op.Code, len(op.Args))
		}
	case op.Code == OpGetVar, op.Code == OpSetVar:
		if op.Var < 0 || int(op.Var) >= len(mb.currFunc.Vars) {
			return fmt.Errorf("%s: undefined variable v%d", op.Code, op.Var)
		}
	case op.Code == OpCall:
		if op.Func < 0 || int(op.Func) >= len(mb.funcs) {
			return fmt.Errorf("call: unknown function f%d", op.Func)
		}

		if callee := mb.funcs[op.Func]; len(callee.Params) != len(op.Args) {
			return fmt.Errorf("call: `%s` takes %d args, got %d", callee.Name, len(callee.Params), len(op.Args))
		}
	case op.Code == OpReturn:
		if len(op.Args) > 1 {
			return fmt.Errorf("ret: expected at most 1 operand, got %d", len(op.Args))
		}
	}

	return nil
}

func (mb *ModuleBuilder) PushVariable(name string, t Type) (VariableID, error) {
	if mb.currFunc == nil {
		return 0, fmt.Errorf("no active function to add a variable to")
	}

	id := VariableID(len(mb.currFunc.Vars))
	mb.currFunc.Vars = append(mb.currFunc.Vars, Variable{ID: id, Name: name, Type: t})
	return id, nil
}

func (mb *ModuleBuilder) FunctionArgs(id FunctionID) ([]VariableID, bool) {
	if id < 0 || int(id) >= len(mb.funcs) {
		return nil, false
	}

	return mb.funcs[id].Args, true
}

// Build returns the module built so far.
func (mb *ModuleBuilder) Build() *Module {
	return &Module{Name: mb.name, Functions: mb.funcs}
}

// Verify checks that the module built so far is complete.
func (mb *ModuleBuilder) Verify() error {
	return mb.Build().Verify()
}

// String returns the textual form of the module built so far.
func (mb *ModuleBuilder) String() string {
	return mb.Build().String()
}
