package ast

// Statement is the union of every AST node that appears directly in a
// Block's body.
type Statement interface {
	statementNode()
}

// DefineLocal declares and initializes a local variable, `var name = value`.
type DefineLocal struct {
	Name  Reference
	Value Expression
}

func (DefineLocal) statementNode() {}

// DeclareLocal declares a local with no initializer, `var name`. Produced by
// the single-operand form of DefineLocal2 (register count left at its
// default, no value on the stack to consume).
type DeclareLocal struct {
	Name Reference
}

func (DeclareLocal) statementNode() {}

// SetVariable assigns to an existing dynamically scoped variable,
// `name = value`.
type SetVariable struct {
	Name  Reference
	Value Expression
}

func (SetVariable) statementNode() {}

// SetMember assigns to an object member, `object.name = value`.
type SetMember struct {
	Object Reference
	Name   Reference
	Value  Expression
}

func (SetMember) statementNode() {}

// If is a conditional. TrueBranch and FalseBranch are always nil in this
// decompiler's output; an If that loop recovery consumes as a guard is
// replaced by a While/For rather than filled in - see the Open Question
// resolution recorded in SPEC_FULL.md: this
// decompiler does not thread forward branches into if/else skeletons, only
// backward ones into loops.
type If struct {
	Cond        Expression
	TrueBranch  *Block
	FalseBranch *Block
}

func (If) statementNode() {}

// While is a recovered backward-branching loop with no declare/increment
// shape, `while (cond) { body }`.
type While struct {
	Cond Expression
	Body Block
}

func (While) statementNode() {}

// For is a While whose guard is preceded by a single declaring statement and
// whose body ends in a single assignment-shaped statement, recovered as
// `for (declare; cond; increment) { body }`.
type For struct {
	Declare   Statement
	Cond      Expression
	Increment Statement
	Body      Block
}

func (For) statementNode() {}

// Trace is the `trace(value)` built-in call.
type Trace struct {
	Value Expression
}

func (Trace) statementNode() {}

// Return is a return statement. Value is nil for a bare `return;`.
type Return struct {
	Value Expression
}

func (Return) statementNode() {}

// ExpressionStatement wraps an expression evaluated purely for its side
// effect at a site with no dedicated statement shape - currently only a
// named function declaration's Function expression.
type ExpressionStatement struct {
	Value Expression
}

func (ExpressionStatement) statementNode() {}

// Pop is the dedicated statement form of the Pop opcode: pop the top stack
// value and keep it, statement-level, for its side effects.
type Pop struct {
	Value Expression
}

func (Pop) statementNode() {}

// DanglingStack marks one value left on the stack at the end of a function
// body with no instruction left to consume it. One node is emitted per
// residual value, in reverse-pop order (the value nearest the top first).
// Emitted in both strict and lossy mode; residue is never an error.
type DanglingStack struct {
	Value Expression
}

func (DanglingStack) statementNode() {}

// Play is the `play();` built-in call (no operand).
type Play struct{}

func (Play) statementNode() {}

// Stop is the `stop();` built-in call (no operand).
type Stop struct{}

func (Stop) statementNode() {}

// GotoFrame is `gotoAndPlay(frame);`/`gotoAndStop(frame);`-shaped in source;
// the decoded form only records the target frame.
type GotoFrame struct {
	Frame uint16
}

func (GotoFrame) statementNode() {}

// GotoLabel is the label-addressed form of GotoFrame.
type GotoLabel struct {
	Label string
}

func (GotoLabel) statementNode() {}

// UnknownStatement records an opcode the reader or VM did not recognize.
// Lossy mode only; Debug holds a human-readable description of the
// unrecognized byte(s) for the printer to surface as a comment.
type UnknownStatement struct {
	Debug string
}

func (UnknownStatement) statementNode() {}

// DecompileError is a lossy-mode placeholder statement recording an error
// that strict mode would have aborted on, so later statements in the same
// block can still be produced.
type DecompileError struct {
	Message string
}

func (DecompileError) statementNode() {}
