package reader

// PushValue is one typed entry of a Push instruction's operand sequence.
// String-shaped entries (Str) have already been resolved through the
// constant pool by the time they reach this type - the reader never hands
// the VM a bare pool index.
type PushValue interface {
	pushValueNode()
}

type Undefined struct{}

func (Undefined) pushValueNode() {}

type Null struct{}

func (Null) pushValueNode() {}

type Bool bool

func (Bool) pushValueNode() {}

type Int int32

func (Int) pushValueNode() {}

type Float float32

func (Float) pushValueNode() {}

// Double is a word-swapped f64: two little-endian 32-bit halves, high half
// first. Decoded by reading a u64 and rotating 32 bits left.
type Double float64

func (Double) pushValueNode() {}

// Register names a register slot by index, for pushing its current value.
type Register uint8

func (Register) pushValueNode() {}

// Str is a pool-resolved string, whether it arrived as a direct pool index
// (type 0) or a re-pool ("ConstantPool") reference (types 8/9) - both
// collapse to the same resolved value once decoded.
type Str string

func (Str) pushValueNode() {}
