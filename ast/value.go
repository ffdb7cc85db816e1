// Package ast defines the decompiler's abstract syntax tree: the expression,
// reference, statement, and block node sets the virtual machine builds from
// decoded bytecode and the printer renders to text.
//
// Node sets are modeled as closed Go interfaces with an unexported marker
// method rather than a visitor hierarchy: each concrete node is a plain
// struct (or named primitive), and consumers use a type switch to cover the
// union exhaustively.
package ast

// Value is the literal leaf of the AST - the payload of an Expression's
// Literal variant.
type Value interface {
	valueNode()
}

// Uninitialized marks a freshly-allocated register that has not yet been
// written to by a StoreRegister or a named parameter binding.
type Uninitialized struct{}

func (Uninitialized) valueNode() {}

// Undefined is AVM1's `undefined`.
type Undefined struct{}

func (Undefined) valueNode() {}

// Null is AVM1's `null`.
type Null struct{}

func (Null) valueNode() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) valueNode() {}

// Int is a signed 32-bit integer literal.
type Int int32

func (Int) valueNode() {}

// Float is a 32-bit float literal.
type Float float32

func (Float) valueNode() {}

// Double is a 64-bit float literal. The bytecode stores these word-swapped;
// by the time a Double reaches the AST it has already been corrected to
// native byte order (see the reader package).
type Double float64

func (Double) valueNode() {}

// String is a string literal. Every string that reaches the AST has already
// been resolved from the constant pool into an owned value (data model
// invariant 4).
type String string

func (String) valueNode() {}

// Array is an ordered array literal, as built by InitArray.
type Array []Expression

func (Array) valueNode() {}

// KeyValue is one key/value pair of an Object literal.
type KeyValue struct {
	Key   Expression
	Value Expression
}

// Object is an ordered object literal, as built by InitObject. Order is the
// order keys were pushed on the source stack, not the order InitObject pops
// them.
type Object []KeyValue

func (Object) valueNode() {}
