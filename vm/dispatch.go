package vm

import (
	"fmt"

	"github.com/avm1go/decompiler/ast"
	"github.com/avm1go/decompiler/reader"
)

var binaryOpTable = map[reader.BinaryOp]ast.BinaryOp{
	reader.BinAdd:          ast.OpAdd,
	reader.BinSubtract:     ast.OpSubtract,
	reader.BinMultiply:     ast.OpMultiply,
	reader.BinDivide:       ast.OpDivide,
	reader.BinModulo:       ast.OpModulo,
	reader.BinEquals:       ast.OpEquals,
	reader.BinLess:         ast.OpLess,
	reader.BinGreater:      ast.OpGreater,
	reader.BinStrictEquals: ast.OpStrictEquals,
	reader.BinBitAnd:       ast.OpBitAnd,
	reader.BinBitOr:        ast.OpBitOr,
	reader.BinBitXor:       ast.OpBitXor,
	reader.BinBitLShift:    ast.OpBitLShift,
	reader.BinBitRShift:    ast.OpBitRShift,
	reader.BinBitURShift:   ast.OpBitURShift,
}

var unaryOpTable = map[reader.UnaryOp]ast.UnaryOp{
	reader.UnaryToInteger: ast.OpToInteger,
	reader.UnaryToString:  ast.OpToString,
	reader.UnaryToNumber:  ast.OpToNumber,
	reader.UnaryIncrement: ast.OpIncrement,
	reader.UnaryDecrement: ast.OpDecrement,
}

// applyNot builds the Not of e, folding double negation and the four
// equality-comparison duals instead of nesting a literal Unary(Not, ...).
// Used both by the Not opcode and by If's "logically invert" rule.
func applyNot(e ast.Expression) ast.Expression {
	switch t := e.(type) {
	case ast.Unary:
		if t.Op == ast.OpNot {
			return t.Target
		}
	case ast.Binary:
		if dual, ok := t.Op.DualOp(); ok {
			return ast.Binary{Left: t.Left, Right: t.Right, Op: dual}
		}
	}
	return ast.Unary{Target: e, Op: ast.OpNot}
}

func pushValueToExpr(v reader.PushValue) ast.Expression {
	switch t := v.(type) {
	case reader.Undefined:
		return ast.Literal{Value: ast.Undefined{}}
	case reader.Null:
		return ast.Literal{Value: ast.Null{}}
	case reader.Bool:
		return ast.Literal{Value: ast.Bool(t)}
	case reader.Int:
		return ast.Literal{Value: ast.Int(t)}
	case reader.Float:
		return ast.Literal{Value: ast.Float(t)}
	case reader.Double:
		return ast.Literal{Value: ast.Double(t)}
	case reader.Str:
		return ast.Literal{Value: ast.String(t)}
	case reader.Register:
		return ast.ReferenceExpr{Ref: ast.Register(t)}
	default:
		return ast.Literal{Value: ast.Undefined{}}
	}
}

// dispatch applies the rule for one decoded instruction against the VM's
// state. offset is the instruction's own start position, used to anchor
// both pushed values and emitted statements.
func (v *VM) dispatch(offset int, act reader.Action) error {
	switch a := act.(type) {
	case reader.Push:
		for _, val := range a.Values {
			v.push(offset, pushValueToExpr(val))
		}
		return nil

	case reader.PushDuplicate:
		top, ok := v.stack.peek()
		if !ok {
			if v.strict {
				return StackError{Offset: offset, Message: "duplicate of empty stack"}
			}
			v.diag.Warnf("duplicate of empty stack at offset %d, substituting uninitialized", offset)
			v.push(offset, ast.Literal{Value: ast.Uninitialized{}})
			return nil
		}
		v.push(offset, top.Expr)
		return nil

	case reader.Pop:
		val, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.emit(offset, ast.Pop{Value: val})
		return nil

	case reader.StoreRegister:
		top, ok := v.stack.peek()
		if !ok {
			if v.strict {
				return StackError{Offset: offset, Message: "store register from empty stack"}
			}
			v.diag.Warnf("store register from empty stack at offset %d, substituting uninitialized", offset)
			top = entry{Offset: offset, Expr: ast.Literal{Value: ast.Uninitialized{}}}
		}
		if err := v.storeRegister(offset, a.Register, top.Expr); err != nil {
			return err
		}
		replacement := ast.StoreRegister{Register: a.Register, Value: top.Expr}
		if ok {
			v.stack[len(v.stack)-1] = entry{Offset: offset, Expr: replacement}
		} else {
			v.push(offset, replacement)
		}
		return nil

	case reader.Binary:
		right, err := v.pop(offset)
		if err != nil {
			return err
		}
		left, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.push(offset, ast.Binary{Left: left, Right: right, Op: binaryOpTable[a.Op]})
		return nil

	case reader.And:
		right, err := v.pop(offset)
		if err != nil {
			return err
		}
		left, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.push(offset, ast.Binary{Left: left, Right: right, Op: ast.OpLogicalAnd})
		return nil

	case reader.Or:
		right, err := v.pop(offset)
		if err != nil {
			return err
		}
		left, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.push(offset, ast.Binary{Left: left, Right: right, Op: ast.OpLogicalOr})
		return nil

	case reader.Not:
		top, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.push(offset, applyNot(top))
		return nil

	case reader.Unary:
		top, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.push(offset, ast.Unary{Target: top, Op: unaryOpTable[a.Op]})
		return nil

	case reader.GetVariable:
		top, err := v.pop(offset)
		if err != nil {
			return err
		}
		var ref ast.Reference
		if lit, ok := top.(ast.Literal); ok {
			if s, ok := lit.Value.(ast.String); ok {
				ref = ast.Variable(s)
			}
		}
		if ref == nil {
			ref = ast.ExprReference{Expr: top}
		}
		v.push(offset, ast.ReferenceExpr{Ref: ref})
		return nil

	case reader.SetVariable:
		value, err := v.pop(offset)
		if err != nil {
			return err
		}
		path, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.emit(offset, ast.SetVariable{Name: ast.Promote(path), Value: value})
		return nil

	case reader.DefineLocal:
		right, err := v.pop(offset)
		if err != nil {
			return err
		}
		left, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.emit(offset, ast.DefineLocal{Name: ast.Promote(left), Value: right})
		return nil

	case reader.DefineLocal2:
		name, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.emit(offset, ast.DeclareLocal{Name: ast.Promote(name)})
		return nil

	case reader.GetMember:
		name, err := v.pop(offset)
		if err != nil {
			return err
		}
		object, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.push(offset, ast.GetMember{Object: ast.Promote(object), Name: ast.Promote(name)})
		return nil

	case reader.SetMember:
		value, err := v.pop(offset)
		if err != nil {
			return err
		}
		name, err := v.pop(offset)
		if err != nil {
			return err
		}
		object, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.emit(offset, ast.SetMember{Object: ast.Promote(object), Name: ast.Promote(name), Value: value})
		return nil

	case reader.InitArray:
		countExpr, err := v.pop(offset)
		if err != nil {
			return err
		}
		n, ok := literalInt(countExpr)
		if !ok {
			if v.strict {
				return MetadataError{Offset: offset, Message: "InitArray count is not a literal integer"}
			}
			v.diag.Warnf("InitArray count not a literal integer at offset %d, substituting empty array", offset)
			v.push(offset, ast.Literal{Value: ast.Array(nil)})
			return nil
		}
		elements, err := v.popN(offset, n)
		if err != nil {
			return err
		}
		v.push(offset, ast.Literal{Value: ast.Array(elements)})
		return nil

	case reader.InitObject:
		countExpr, err := v.pop(offset)
		if err != nil {
			return err
		}
		n, ok := literalInt(countExpr)
		if !ok {
			if v.strict {
				return MetadataError{Offset: offset, Message: "InitObject count is not a literal integer"}
			}
			v.diag.Warnf("InitObject count not a literal integer at offset %d, substituting empty object", offset)
			v.push(offset, ast.Literal{Value: ast.Object(nil)})
			return nil
		}
		vals, err := v.popN(offset, 2*n)
		if err != nil {
			return err
		}
		pairs := make(ast.Object, n)
		for i := 0; i < n; i++ {
			pairs[i] = ast.KeyValue{Key: vals[2*i], Value: vals[2*i+1]}
		}
		v.push(offset, ast.Literal{Value: pairs})
		return nil

	case reader.CallFunction:
		name, err := v.pop(offset)
		if err != nil {
			return err
		}
		countExpr, err := v.pop(offset)
		if err != nil {
			return err
		}
		n, ok := literalInt(countExpr)
		if !ok {
			if v.strict {
				return MetadataError{Offset: offset, Message: "CallFunction argument count is not a literal integer"}
			}
			v.diag.Warnf("CallFunction argument count not a literal integer at offset %d, using 0 args", offset)
			n = 0
		}
		args, err := v.popN(offset, n)
		if err != nil {
			return err
		}
		v.push(offset, ast.CallFunction{Name: ast.Promote(name), Args: args})
		return nil

	case reader.CallMethod:
		name, err := v.pop(offset)
		if err != nil {
			return err
		}
		object, err := v.pop(offset)
		if err != nil {
			return err
		}
		countExpr, err := v.pop(offset)
		if err != nil {
			return err
		}
		n, ok := literalInt(countExpr)
		if !ok {
			if v.strict {
				return MetadataError{Offset: offset, Message: "CallMethod argument count is not a literal integer"}
			}
			v.diag.Warnf("CallMethod argument count not a literal integer at offset %d, using 0 args", offset)
			n = 0
		}
		args, err := v.popN(offset, n)
		if err != nil {
			return err
		}
		v.push(offset, ast.CallMethod{Object: ast.Promote(object), Name: ast.Promote(name), Args: args})
		return nil

	case reader.Return:
		value, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.diag.Tracef("[%04d] return", offset)
		v.emit(offset, ast.Return{Value: value})
		return nil

	case reader.If:
		top, err := v.pop(offset)
		if err != nil {
			return err
		}
		cond := applyNot(top)
		v.emit(offset, ast.If{Cond: cond})
		actualPos := v.reader.Offset()
		target := actualPos + int(a.Offset)
		v.branches = append(v.branches, branch{Offset: offset, Target: target})
		if a.Offset < 0 {
			v.diag.Tracef("if %04d <- [%04d-%04d]", target, offset, actualPos-1)
			return v.resolveLoop(target)
		}
		v.diag.Tracef("if [%04d-%04d] -> %04d", offset, actualPos-1, target)
		return nil

	case reader.Jump:
		actualPos := v.reader.Offset()
		target := actualPos + int(a.Offset)
		v.branches = append(v.branches, branch{Offset: offset, Target: target, Jump: true})
		if a.Offset < 0 {
			v.diag.Tracef("%04d <- [%04d-%04d]", target, offset, actualPos-1)
			return v.resolveLoop(target)
		}
		v.diag.Tracef("[%04d-%04d] -> %04d", offset, actualPos-1, target)
		return nil

	case reader.Trace:
		value, err := v.pop(offset)
		if err != nil {
			return err
		}
		v.emit(offset, ast.Trace{Value: value})
		return nil

	case reader.Play:
		v.emit(offset, ast.Play{})
		return nil

	case reader.Stop:
		v.emit(offset, ast.Stop{})
		return nil

	case reader.GotoFrame:
		v.emit(offset, ast.GotoFrame{Frame: a.Frame})
		return nil

	case reader.GotoLabel:
		v.emit(offset, ast.GotoLabel{Label: a.Label})
		return nil

	case reader.DefineFunction:
		return v.dispatchDefineFunction(offset, a)

	case reader.DefineFunction2:
		return v.dispatchDefineFunction2(offset, a)

	case reader.Unknown:
		if v.strict {
			return UnknownOpcodeError{Offset: offset, Opcode: a.Opcode}
		}
		v.diag.Warnf("unrecognized opcode 0x%02X at offset %d", a.Opcode, offset)
		v.emit(offset, ast.UnknownStatement{Debug: fmt.Sprintf("0x%02X", a.Opcode)})
		return nil

	default:
		return UnknownOpcodeError{Offset: offset, Opcode: 0}
	}
}
