package vm

import (
	"testing"

	"github.com/avm1go/decompiler/ast"
	"github.com/avm1go/decompiler/diag"
)

func newTestVM() *VM {
	return New(nil, nil, true, diag.New(false), 0)
}

func TestResolveLoopForPromotion(t *testing.T) {
	v := newTestVM()

	declare := ast.SetVariable{Name: ast.Identifier("i"), Value: ast.Literal{Value: ast.Int(0)}}
	guard := ast.If{Cond: ast.Binary{Left: ast.ReferenceExpr{Ref: ast.Identifier("i")}, Right: ast.Literal{Value: ast.Int(10)}, Op: ast.OpLess}}
	trace := ast.Trace{Value: ast.ReferenceExpr{Ref: ast.Identifier("i")}}
	increment := ast.SetVariable{Name: ast.Identifier("i"), Value: ast.Binary{Left: ast.ReferenceExpr{Ref: ast.Identifier("i")}, Right: ast.Literal{Value: ast.Int(1)}, Op: ast.OpAdd}}

	v.statements = []stmt{
		{Offset: 0, Stmt: declare},
		{Offset: 10, Stmt: guard},
		{Offset: 20, Stmt: trace},
		{Offset: 30, Stmt: increment},
	}

	if err := v.resolveLoop(10); err != nil {
		t.Fatalf("resolveLoop() error = %v", err)
	}
	if len(v.statements) != 1 {
		t.Fatalf("len(statements) = %d, want 1", len(v.statements))
	}
	forStmt, ok := v.statements[0].Stmt.(ast.For)
	if !ok {
		t.Fatalf("statements[0] = %#v, want For", v.statements[0].Stmt)
	}
	if forStmt.Declare != ast.Statement(declare) {
		t.Errorf("Declare = %#v, want %#v", forStmt.Declare, declare)
	}
	if forStmt.Increment != ast.Statement(increment) {
		t.Errorf("Increment = %#v, want %#v", forStmt.Increment, increment)
	}
	if len(forStmt.Body.Body) != 1 || forStmt.Body.Body[0] != ast.Statement(trace) {
		t.Errorf("Body = %#v, want single Trace statement", forStmt.Body)
	}
}

func TestResolveLoopWhileFallback(t *testing.T) {
	v := newTestVM()

	guard := ast.If{Cond: ast.Literal{Value: ast.Bool(true)}}
	trace := ast.Trace{Value: ast.Literal{Value: ast.Int(1)}}

	v.statements = []stmt{
		{Offset: 10, Stmt: guard},
		{Offset: 20, Stmt: trace},
	}

	if err := v.resolveLoop(10); err != nil {
		t.Fatalf("resolveLoop() error = %v", err)
	}
	if len(v.statements) != 1 {
		t.Fatalf("len(statements) = %d, want 1", len(v.statements))
	}
	whileStmt, ok := v.statements[0].Stmt.(ast.While)
	if !ok {
		t.Fatalf("statements[0] = %#v, want While", v.statements[0].Stmt)
	}
	if len(whileStmt.Body.Body) != 1 || whileStmt.Body.Body[0] != ast.Statement(trace) {
		t.Errorf("Body = %#v, want single Trace statement", whileStmt.Body)
	}
}

func TestResolveLoopNoGuardStrictFails(t *testing.T) {
	v := newTestVM()
	v.statements = []stmt{{Offset: 20, Stmt: ast.Trace{Value: ast.Literal{Value: ast.Int(1)}}}}

	if err := v.resolveLoop(999); err == nil {
		t.Error("resolveLoop() = nil error, want ControlFlowError in strict mode")
	}
}

func TestResolveLoopNoGuardLossyLeavesFlat(t *testing.T) {
	v := newTestVM()
	v.strict = false
	before := []stmt{{Offset: 20, Stmt: ast.Trace{Value: ast.Literal{Value: ast.Int(1)}}}}
	v.statements = append([]stmt{}, before...)

	if err := v.resolveLoop(999); err != nil {
		t.Fatalf("resolveLoop() error = %v, want nil in lossy mode", err)
	}
	if len(v.statements) != len(before) {
		t.Errorf("statements mutated in lossy no-guard case: got %#v", v.statements)
	}
}
