package vm

import (
	"github.com/avm1go/decompiler/ast"
	"github.com/avm1go/decompiler/reader"
)

// emitFunction pushes name's Function expression anonymously, or emits it
// as an ExpressionStatement declaration when name is non-empty - the
// anonymous/named emission split both DefineFunction and DefineFunction2
// share.
func (v *VM) emitFunction(offset int, name string, fn ast.Function) {
	if name == "" {
		v.push(offset, fn)
		return
	}
	v.emit(offset, ast.ExpressionStatement{Value: fn})
}

// dispatchDefineFunction builds a v1 function: no register_count field, so
// the callee gets no register file at all and its parameters are
// scope-bound rather than register-bound.
func (v *VM) dispatchDefineFunction(offset int, a reader.DefineFunction) error {
	child := New(a.Body, v.pool, v.strict, v.diag, 0)
	body, err := child.Run()
	if err != nil {
		return err
	}

	params := make([]ast.Reference, len(a.Params))
	for i, p := range a.Params {
		params[i] = ast.Identifier(p)
	}

	var namePtr *string
	if a.Name != "" {
		n := a.Name
		namePtr = &n
	}

	fn := ast.Function{Name: namePtr, Flags: 0, Params: params, Body: body}
	v.emitFunction(offset, a.Name, fn)
	return nil
}

// dispatchDefineFunction2 builds a v2 function: a full register_count-sized
// file, each parameter's declared register pre-seeded with a Reference to
// its own name.
func (v *VM) dispatchDefineFunction2(offset int, a reader.DefineFunction2) error {
	child := New(a.Body, v.pool, v.strict, v.diag, int(a.RegisterCount))

	params := make([]ast.Reference, len(a.Params))
	for i, p := range a.Params {
		params[i] = ast.Identifier(p.Name)
		if err := child.storeRegister(0, p.Register, ast.ReferenceExpr{Ref: ast.Identifier(p.Name)}); err != nil {
			return err
		}
	}

	body, err := child.Run()
	if err != nil {
		return err
	}

	var namePtr *string
	if a.Name != "" {
		n := a.Name
		namePtr = &n
	}

	fn := ast.Function{Name: namePtr, Flags: a.Flags, Params: params, Body: body}
	v.emitFunction(offset, a.Name, fn)
	return nil
}
