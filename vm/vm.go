// Package vm is the per-function-body symbolic execution engine: it drives
// the reader, applies one dispatch rule per decoded instruction against a
// simulated operand stack and register file, and recovers structured
// control flow (while/for) from backward jumps.
package vm

import (
	"github.com/avm1go/decompiler/ast"
	"github.com/avm1go/decompiler/diag"
	"github.com/avm1go/decompiler/pool"
	"github.com/avm1go/decompiler/reader"
)

// stmt pairs an emitted statement with the source-offset of the
// instruction that closed it - the anchor the loop recoverer uses to
// locate a back-edge's guard.
type stmt struct {
	Offset int
	Stmt   ast.Statement
}

// branch records an If or an unconditional Jump seen during the scan. The
// table is only appended to, never read back: this decompiler does not
// thread forward branches into if/else skeletons (see the branch-threading
// design decision), and a backward branch is recognized by the sign of its
// offset alone.
type branch struct {
	Offset int
	Target int
	Jump   bool // true for an unconditional Jump, false for an If
}

// VM is the simulator for exactly one function body (the top-level action
// body, or one nested function body). It is created fresh per body,
// consumed once, and discarded.
type VM struct {
	reader *reader.Reader
	pool   *pool.Pool
	strict bool
	diag   *diag.Sink

	stack      operandStack
	statements []stmt
	registers  []ast.Expression
	branches   []branch
}

// New creates a VM for a function body with the given register file size.
// Each slot starts Literal(Uninitialized); params are seeded into their
// claimed slots afterward by the caller (see functions.go).
func New(body []byte, p *pool.Pool, strict bool, d *diag.Sink, registerCount int) *VM {
	registers := make([]ast.Expression, registerCount)
	for i := range registers {
		registers[i] = ast.Literal{Value: ast.Uninitialized{}}
	}
	return &VM{
		reader:    reader.New(body, p),
		pool:      p,
		strict:    strict,
		diag:      d,
		registers: registers,
	}
}

// NewTopLevel creates a VM for a top-level action body. Top-level bodies
// carry no register_count field in this format; the register file starts
// empty and, in lossy mode, grows lazily on first out-of-range store (the
// same rule DefineFunction's own empty register file follows).
func NewTopLevel(body []byte, p *pool.Pool, strict bool, d *diag.Sink) *VM {
	return New(body, p, strict, d, 0)
}

// Run drives the reader to completion and returns the recovered block.
func (v *VM) Run() (ast.Block, error) {
	for {
		offset := v.reader.Offset()
		act, err := v.reader.Next()
		if err != nil {
			return ast.Block{}, err
		}
		if _, ok := act.(reader.End); ok {
			break
		}
		if err := v.dispatch(offset, act); err != nil {
			return ast.Block{}, err
		}
	}
	return v.finalize(), nil
}

// emit appends a statement to the body's statement list, anchored at the
// offset of the instruction that closed it.
func (v *VM) emit(offset int, s ast.Statement) {
	v.statements = append(v.statements, stmt{Offset: offset, Stmt: s})
}

// push places an expression on the operand stack, anchored at the offset of
// the instruction that produced it.
func (v *VM) push(offset int, e ast.Expression) {
	v.stack.push(offset, e)
}

// pop removes the top of the operand stack, or raises StackError /
// substitutes Uninitialized in lossy mode per error kind 2.
func (v *VM) pop(offset int) (ast.Expression, error) {
	top, ok := v.stack.pop()
	if !ok {
		if v.strict {
			return nil, StackError{Offset: offset, Message: "pop from empty stack"}
		}
		v.diag.Warnf("stack underflow at offset %d, substituting uninitialized", offset)
		return ast.Literal{Value: ast.Uninitialized{}}, nil
	}
	return top.Expr, nil
}

// popN pops n expressions and returns them in original (bottom-to-top)
// order, i.e. the order they were originally pushed.
func (v *VM) popN(offset int, n int) ([]ast.Expression, error) {
	out := make([]ast.Expression, n)
	for i := n - 1; i >= 0; i-- {
		e, err := v.pop(offset)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// storeRegister writes value into register index reg, reporting
// RegisterError or growing the file in lossy mode per error kind 3.
func (v *VM) storeRegister(offset int, reg uint8, value ast.Expression) error {
	if int(reg) >= len(v.registers) {
		if v.strict {
			return RegisterError{Offset: offset, Register: reg, Size: len(v.registers)}
		}
		v.diag.Warnf("register %d out of range (size %d) at offset %d, growing file", reg, len(v.registers), offset)
		grown := make([]ast.Expression, int(reg)+1)
		copy(grown, v.registers)
		for i := len(v.registers); i < len(grown); i++ {
			grown[i] = ast.Literal{Value: ast.Uninitialized{}}
		}
		v.registers = grown
	}
	v.registers[reg] = value
	return nil
}

// readRegister returns the current value of register index reg, or
// Uninitialized plus a diagnostic in lossy mode if out of range.
func (v *VM) readRegister(offset int, reg uint8) (ast.Expression, error) {
	if int(reg) >= len(v.registers) {
		if v.strict {
			return nil, RegisterError{Offset: offset, Register: reg, Size: len(v.registers)}
		}
		v.diag.Warnf("read of out-of-range register %d (size %d) at offset %d, substituting uninitialized", reg, len(v.registers), offset)
		return ast.Literal{Value: ast.Uninitialized{}}, nil
	}
	return v.registers[reg], nil
}

// literalInt extracts an i32 from an expression that metadata-bearing
// opcodes (CallFunction/CallMethod argument count, InitArray/InitObject
// size) require to be a literal integer, per error kind 4.
func literalInt(e ast.Expression) (int, bool) {
	lit, ok := e.(ast.Literal)
	if !ok {
		return 0, false
	}
	i, ok := lit.Value.(ast.Int)
	return int(i), ok
}

// finalize appends one DanglingStack statement per residual stack entry,
// in reverse-pop order (top of stack first, matching the order repeated
// pop() calls would have produced), then projects the (offset, statement)
// list into a plain Block.
func (v *VM) finalize() ast.Block {
	if !v.stack.isEmpty() {
		v.diag.Tracef("%d value(s) left on stack at End, emitting as dangling stack", len(v.stack))
		for i := len(v.stack) - 1; i >= 0; i-- {
			e := v.stack[i]
			v.emit(e.Offset, ast.DanglingStack{Value: e.Expr})
		}
	}

	body := make([]ast.Statement, len(v.statements))
	for i, s := range v.statements {
		body[i] = s.Stmt
	}
	return ast.Block{Body: body}
}
