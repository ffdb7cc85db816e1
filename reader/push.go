package reader

import (
	"fmt"
	"math"
	"math/bits"
)

// readPush decodes a Push instruction's operand region: a sequence of
// typed values running to the end of the declared operand length. Type 0
// and types 8/9 (direct pool index vs. re-pool reference) both resolve to
// the same Str value - the dialect's "ConstantPool" variant carries no
// distinct runtime meaning once resolved.
func (r *Reader) readPush(start int, operand []byte) (Action, error) {
	c := &cursor{buf: operand, base: start}
	var values []PushValue
	for !c.atEnd() {
		tag, err := c.u8()
		if err != nil {
			return nil, err
		}
		switch pushValueType(tag) {
		case pushTypeStr:
			s, err := c.poolString(r.pool)
			if err != nil {
				return nil, err
			}
			values = append(values, Str(s))
		case pushTypeFloat:
			raw, err := c.u32()
			if err != nil {
				return nil, err
			}
			values = append(values, Float(math.Float32frombits(raw)))
		case pushTypeNull:
			values = append(values, Null{})
		case pushTypeUndefined:
			values = append(values, Undefined{})
		case pushTypeRegister:
			reg, err := c.u8()
			if err != nil {
				return nil, err
			}
			values = append(values, Register(reg))
		case pushTypeBool:
			b, err := c.u8()
			if err != nil {
				return nil, err
			}
			values = append(values, Bool(b != 0))
		case pushTypeDouble:
			raw, err := c.u64()
			if err != nil {
				return nil, err
			}
			values = append(values, Double(math.Float64frombits(bits.RotateLeft64(raw, 32))))
		case pushTypeInt:
			raw, err := c.u32()
			if err != nil {
				return nil, err
			}
			values = append(values, Int(int32(raw)))
		case pushTypeConstant8:
			idx, err := c.u8()
			if err != nil {
				return nil, err
			}
			s, err := r.pool.Get(int(idx))
			if err != nil {
				return nil, ParseError{Offset: start, Message: err.Error()}
			}
			values = append(values, Str(s))
		case pushTypeConstant16:
			idx, err := c.u16()
			if err != nil {
				return nil, err
			}
			s, err := r.pool.Get(int(idx))
			if err != nil {
				return nil, ParseError{Offset: start, Message: err.Error()}
			}
			values = append(values, Str(s))
		default:
			return nil, ParseError{Offset: start, Message: fmt.Sprintf("invalid push value type %d", tag)}
		}
	}
	return Push{Values: values}, nil
}
