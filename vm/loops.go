package vm

import "github.com/avm1go/decompiler/ast"

// isAssignmentLike reports whether s is a statement shape the for-loop
// promotion accepts as a declare or increment clause.
func isAssignmentLike(s ast.Statement) bool {
	switch s.(type) {
	case ast.ExpressionStatement, ast.SetVariable:
		return true
	default:
		return false
	}
}

// resolveLoop folds a backward branch to target into a While or For
// statement, per the control-flow reconstruction algorithm: locate the
// guard If previously emitted at target, take everything emitted since as
// the loop body, and attempt for-loop promotion before falling back to a
// plain while.
func (v *VM) resolveLoop(target int) error {
	guardIdx := -1
	for i, s := range v.statements {
		if s.Offset != target {
			continue
		}
		if _, ok := s.Stmt.(ast.If); ok {
			guardIdx = i
			break
		}
	}
	if guardIdx == -1 {
		if v.strict {
			return ControlFlowError{Offset: v.reader.Offset(), Target: target}
		}
		v.diag.Warnf("no loop guard found at target offset %d, leaving statements flat", target)
		return nil
	}

	guard := v.statements[guardIdx].Stmt.(ast.If)
	endIdx := len(v.statements) - 1

	body := make([]ast.Statement, 0, endIdx-guardIdx)
	for i := guardIdx + 1; i <= endIdx; i++ {
		body = append(body, v.statements[i].Stmt)
	}

	declareIdx := guardIdx - 1
	if declareIdx >= 0 && len(body) > 0 &&
		isAssignmentLike(v.statements[declareIdx].Stmt) && isAssignmentLike(body[len(body)-1]) {
		declare := v.statements[declareIdx].Stmt
		increment := body[len(body)-1]
		forBody := body[:len(body)-1]
		v.diag.Tracef("recovered for-loop: guard at offset %d, declare at offset %d", target, v.statements[declareIdx].Offset)
		replacement := stmt{
			Offset: v.statements[declareIdx].Offset,
			Stmt: ast.For{
				Declare:   declare,
				Cond:      guard.Cond,
				Increment: increment,
				Body:      ast.Block{Body: forBody},
			},
		}
		v.statements = append(v.statements[:declareIdx], replacement)
		return nil
	}

	v.diag.Tracef("recovered while-loop: guard at offset %d", target)
	replacement := stmt{
		Offset: v.statements[guardIdx].Offset,
		Stmt:   ast.While{Cond: guard.Cond, Body: ast.Block{Body: body}},
	}
	v.statements = append(v.statements[:guardIdx], replacement)
	return nil
}
