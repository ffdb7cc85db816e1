package vm

import (
	"testing"

	"github.com/avm1go/decompiler/ast"
	"github.com/avm1go/decompiler/diag"
	"github.com/avm1go/decompiler/pool"
)

// Raw opcode bytes, mirrored from the reader package's unexported table -
// kept here so these tests can hand-assemble bytecode without reaching
// into reader internals.
const (
	bcEnd           = 0x00
	bcAdd           = 0x0A
	bcEquals        = 0x0E
	bcLess          = 0x0F
	bcNot           = 0x12
	bcPop           = 0x17
	bcGetVariable   = 0x1C
	bcSetVariable   = 0x1D
	bcDefineLocal   = 0x3C
	bcCallMethod    = 0x52
	bcIncrement     = 0x50
	bcStoreRegister = 0x87
	bcPush          = 0x96
	bcJump          = 0x99
	bcIf            = 0x9D
)

func u16le(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func i16le(v int16) []byte  { return u16le(uint16(v)) }
func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func pushStrIdx(idx uint16) []byte { return append([]byte{0}, u16le(idx)...) }
func pushInt(v int32) []byte      { return append([]byte{7}, u32le(uint32(v))...) }
func pushRegister(r uint8) []byte { return []byte{4, r} }

func withLength(opcode byte, operand []byte) []byte {
	out := []byte{opcode}
	out = append(out, u16le(uint16(len(operand)))...)
	return append(out, operand...)
}

func mustPool(t *testing.T, strs string) *pool.Pool {
	t.Helper()
	p, err := pool.Parse([]byte(strs), "test.json")
	if err != nil {
		t.Fatalf("pool.Parse() error = %v", err)
	}
	return p
}

func TestLiteralAssignment(t *testing.T) {
	p := mustPool(t, `["x"]`)
	push := append(pushStrIdx(0), pushInt(42)...)
	body := append(withLength(bcPush, push), bcDefineLocal, bcEnd)

	v := NewTopLevel(body, p, true, diag.New(false))
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(block.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(block.Body))
	}
	def, ok := block.Body[0].(ast.DefineLocal)
	if !ok {
		t.Fatalf("Body[0] = %#v, want DefineLocal", block.Body[0])
	}
	if def.Name != ast.Identifier("x") {
		t.Errorf("Name = %#v, want Identifier(x)", def.Name)
	}
	lit, ok := def.Value.(ast.Literal)
	if !ok || lit.Value != ast.Int(42) {
		t.Errorf("Value = %#v, want Literal(Int(42))", def.Value)
	}
}

func TestAddition(t *testing.T) {
	p := mustPool(t, `["a"]`)
	push := append(pushStrIdx(0), append(pushInt(1), pushInt(2)...)...)
	body := append(withLength(bcPush, push), bcAdd, bcDefineLocal, bcEnd)

	v := NewTopLevel(body, p, true, diag.New(false))
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	def := block.Body[0].(ast.DefineLocal)
	bin, ok := def.Value.(ast.Binary)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("Value = %#v, want Binary{Op: OpAdd}", def.Value)
	}
	left := bin.Left.(ast.Literal).Value.(ast.Int)
	right := bin.Right.(ast.Literal).Value.(ast.Int)
	if left != 1 || right != 2 {
		t.Errorf("Left/Right = %v/%v, want 1/2", left, right)
	}
}

func TestNotFoldDoubleNegationCancels(t *testing.T) {
	p := mustPool(t, `[]`)
	push := append(pushInt(1), pushInt(2)...)
	body := append(withLength(bcPush, push), bcEquals, bcNot, bcNot, bcPop, bcEnd)

	v := NewTopLevel(body, p, true, diag.New(false))
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	popStmt, ok := block.Body[0].(ast.Pop)
	if !ok {
		t.Fatalf("Body[0] = %#v, want Pop", block.Body[0])
	}
	bin, ok := popStmt.Value.(ast.Binary)
	if !ok || bin.Op != ast.OpEquals {
		t.Fatalf("Value = %#v, want Binary{Op: OpEquals} (double negation cancelled)", popStmt.Value)
	}
}

func TestNotFoldEqualsBecomesNotEquals(t *testing.T) {
	p := mustPool(t, `[]`)
	push := append(pushInt(1), pushInt(2)...)
	body := append(withLength(bcPush, push), bcEquals, bcNot, bcPop, bcEnd)

	v := NewTopLevel(body, p, true, diag.New(false))
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	popStmt := block.Body[0].(ast.Pop)
	bin, ok := popStmt.Value.(ast.Binary)
	if !ok || bin.Op != ast.OpNotEquals {
		t.Fatalf("Value = %#v, want Binary{Op: OpNotEquals}", popStmt.Value)
	}
}

func TestMethodCallAsPopStatement(t *testing.T) {
	p := mustPool(t, `["obj", "m"]`)
	// Stack built bottom-to-top as: count(0), object("obj"), name("m") -
	// CallMethod pops name, then object, then count, matching this order.
	push := append(pushInt(0), append(pushStrIdx(0), pushStrIdx(1)...)...)
	body := append(withLength(bcPush, push), bcCallMethod, bcPop, bcEnd)

	v := NewTopLevel(body, p, true, diag.New(false))
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	popStmt, ok := block.Body[0].(ast.Pop)
	if !ok {
		t.Fatalf("Body[0] = %#v, want Pop", block.Body[0])
	}
	call, ok := popStmt.Value.(ast.CallMethod)
	if !ok {
		t.Fatalf("Value = %#v, want CallMethod", popStmt.Value)
	}
	if call.Object != ast.Identifier("obj") || call.Name != ast.Identifier("m") || len(call.Args) != 0 {
		t.Errorf("CallMethod = %#v, want obj.m() with no args", call)
	}
}

func TestStackUnderflowStrictAborts(t *testing.T) {
	p := mustPool(t, `[]`)
	body := []byte{bcAdd, bcEnd}

	v := NewTopLevel(body, p, true, diag.New(false))
	if _, err := v.Run(); err == nil {
		t.Error("Run() = nil error, want StackError in strict mode")
	}
}

func TestStackUnderflowLossySubstitutes(t *testing.T) {
	p := mustPool(t, `[]`)
	body := []byte{bcAdd, bcDefineLocal, bcEnd}

	v := NewTopLevel(body, p, false, diag.New(false))
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error in lossy mode = %v", err)
	}
	if len(block.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(block.Body))
	}
}

// buildWhileLoop assembles: while (i < 10) { i = i + 1 }
// using register 0 for i, matching the classic guard/back-edge shape:
//
//	guard:  Push($0, 10); Less; If -> end
//	body:   Push($0, 1); Add; StoreRegister 0; Pop
//	        Jump -> guard
//	end:
func buildWhileLoop() []byte {
	guard := append(withLength(bcPush, append(pushRegister(0), pushInt(10)...)), bcLess)
	guardIf := withLength(bcIf, i16le(0)) // placeholder, patched below

	incBody := append(withLength(bcPush, append(pushRegister(0), pushInt(1)...)), bcAdd)
	incBody = append(incBody, withLength(bcStoreRegister, []byte{0})...)
	incBody = append(incBody, bcPop)
	jumpBack := withLength(bcJump, i16le(0)) // placeholder, patched below

	// guardIfOffset is the If instruction's own start offset - the offset
	// the emitted guard statement is anchored to, and therefore the offset
	// the closing Jump must target for resolveLoop to find it.
	guardIfOffset := len(guard)
	afterGuardIf := guardIfOffset + len(guardIf)
	bodyStart := afterGuardIf
	bodyEnd := bodyStart + len(incBody)
	jumpInstrEnd := bodyEnd + len(jumpBack)

	ifOffset := int16(jumpInstrEnd - afterGuardIf)
	copy(guardIf[3:5], u16le(uint16(ifOffset)))

	jumpOffset := int16(guardIfOffset - jumpInstrEnd)
	copy(jumpBack[3:5], i16le(jumpOffset))

	out := append([]byte{}, guard...)
	out = append(out, guardIf...)
	out = append(out, incBody...)
	out = append(out, jumpBack...)
	out = append(out, bcEnd)
	return out
}

func TestWhileLoopRecognition(t *testing.T) {
	p := mustPool(t, `[]`)
	body := buildWhileLoop()

	v := New(body, p, true, diag.New(false), 1)
	block, err := v.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var whileCount, ifCount int
	for _, s := range block.Body {
		switch s.(type) {
		case ast.While:
			whileCount++
		case ast.If:
			ifCount++
		}
	}
	if whileCount != 1 {
		t.Errorf("whileCount = %d, want 1 (body: %#v)", whileCount, block.Body)
	}
	if ifCount != 0 {
		t.Errorf("ifCount = %d, want 0 (guard should be consumed)", ifCount)
	}
}

func TestRegisterIsolationAcrossFunctionBodies(t *testing.T) {
	p := mustPool(t, `["f"]`)
	// DefineFunction2 f() with a 1-slot register file: Push 99; StoreRegister 0; End.
	inner := append(withLength(bcPush, pushInt(99)), withLength(bcStoreRegister, []byte{0})...)
	inner = append(inner, bcEnd)

	fnOperand := u16le(0)                       // name idx 0, bare pool index (no Push type tag)
	fnOperand = append(fnOperand, u16le(0)...)   // paramCount 0
	fnOperand = append(fnOperand, 1)             // registerCount 1
	fnOperand = append(fnOperand, u16le(0)...)   // flags 0
	fnOperand = append(fnOperand, u16le(uint16(len(inner)))...)
	defineFn := withLength(0x8E, fnOperand)
	defineFn = append(defineFn, inner...)

	body := append(defineFn, bcEnd)

	v := New(body, p, true, diag.New(false), 1)
	if err := v.storeRegister(0, 0, ast.Literal{Value: ast.Int(7)}); err != nil {
		t.Fatalf("storeRegister() error = %v", err)
	}
	if _, err := v.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got, err := v.readRegister(0, 0)
	if err != nil {
		t.Fatalf("readRegister() error = %v", err)
	}
	lit, ok := got.(ast.Literal)
	if !ok || lit.Value != ast.Int(7) {
		t.Errorf("parent register 0 = %#v, want unchanged Literal(Int(7))", got)
	}
}
