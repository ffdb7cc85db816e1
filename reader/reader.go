// Package reader decodes one action's raw bytecode bytes into a lazy
// sequence of Action values, resolving the dialect's constant-pool indexed
// strings along the way.
package reader

import (
	"encoding/binary"

	"github.com/avm1go/decompiler/pool"
)

// Reader decodes successive instructions from one action body.
type Reader struct {
	data []byte
	pos  int
	pool *pool.Pool
}

// New returns a Reader positioned at the start of body.
func New(body []byte, p *pool.Pool) *Reader {
	return &Reader{data: body, pool: p}
}

// Offset returns the byte position of the next instruction to be decoded -
// the source-offset the VM anchors statements and jump targets to.
func (r *Reader) Offset() int { return r.pos }

// AtEnd reports whether every byte of the action body has been consumed.
func (r *Reader) AtEnd() bool { return r.pos >= len(r.data) }

func (r *Reader) readU16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, ParseError{Offset: r.pos, Message: "truncated instruction header"}
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// Next decodes and returns the next instruction, or a ParseError.
func (r *Reader) Next() (Action, error) {
	start := r.pos
	if r.pos >= len(r.data) {
		return nil, ParseError{Offset: start, Message: "unexpected end of action body"}
	}
	op := opcode(r.data[r.pos])
	r.pos++

	var operand []byte
	if op.hasLengthPrefix() {
		length, err := r.readU16()
		if err != nil {
			return nil, err
		}
		if r.pos+int(length) > len(r.data) {
			return nil, ParseError{Offset: start, Message: "operand region extends past end of action body"}
		}
		operand = r.data[r.pos : r.pos+int(length)]
		r.pos += int(length)
	}

	switch op {
	case opEnd:
		return End{}, nil
	case opPlay:
		return Play{}, nil
	case opStop:
		return Stop{}, nil
	case opAdd, opAdd2, opStringAdd:
		return Binary{Op: BinAdd}, nil
	case opSubtract:
		return Binary{Op: BinSubtract}, nil
	case opMultiply:
		return Binary{Op: BinMultiply}, nil
	case opDivide:
		return Binary{Op: BinDivide}, nil
	case opModulo:
		return Binary{Op: BinModulo}, nil
	case opEquals, opEquals2, opStringEquals:
		return Binary{Op: BinEquals}, nil
	case opLess, opLess2, opStringLess:
		return Binary{Op: BinLess}, nil
	case opGreater, opStringGreater:
		return Binary{Op: BinGreater}, nil
	case opStrictEquals:
		return Binary{Op: BinStrictEquals}, nil
	case opBitAnd:
		return Binary{Op: BinBitAnd}, nil
	case opBitOr:
		return Binary{Op: BinBitOr}, nil
	case opBitXor:
		return Binary{Op: BinBitXor}, nil
	case opBitLShift:
		return Binary{Op: BinBitLShift}, nil
	case opBitRShift:
		return Binary{Op: BinBitRShift}, nil
	case opBitURShift:
		return Binary{Op: BinBitURShift}, nil
	case opAnd:
		return And{}, nil
	case opOr:
		return Or{}, nil
	case opNot:
		return Not{}, nil
	case opToInteger:
		return Unary{Op: UnaryToInteger}, nil
	case opToString:
		return Unary{Op: UnaryToString}, nil
	case opToNumber:
		return Unary{Op: UnaryToNumber}, nil
	case opIncrement:
		return Unary{Op: UnaryIncrement}, nil
	case opDecrement:
		return Unary{Op: UnaryDecrement}, nil
	case opPop:
		return Pop{}, nil
	case opPushDuplicate:
		return PushDuplicate{}, nil
	case opGetVariable:
		return GetVariable{}, nil
	case opSetVariable:
		return SetVariable{}, nil
	case opDefineLocal:
		return DefineLocal{}, nil
	case opDefineLocal2:
		return DefineLocal2{}, nil
	case opGetMember, opGetProperty:
		return GetMember{}, nil
	case opSetMember:
		return SetMember{}, nil
	case opInitArray:
		return InitArray{}, nil
	case opInitObject:
		return InitObject{}, nil
	case opCallFunction:
		return CallFunction{}, nil
	case opCallMethod:
		return CallMethod{}, nil
	case opReturn:
		return Return{}, nil
	case opTrace:
		return Trace{}, nil
	case opPush:
		return r.readPush(start, operand)
	case opDefineFunction:
		return r.readDefineFunction(start, operand)
	case opDefineFunction2:
		return r.readDefineFunction2(start, operand)
	case opStoreRegister:
		c := &cursor{buf: operand, base: start}
		reg, err := c.u8()
		if err != nil {
			return nil, err
		}
		return StoreRegister{Register: reg}, nil
	case opGotoFrame:
		c := &cursor{buf: operand, base: start}
		frame, err := c.u16()
		if err != nil {
			return nil, err
		}
		return GotoFrame{Frame: frame}, nil
	case opGotoLabel:
		c := &cursor{buf: operand, base: start}
		label, err := c.poolString(r.pool)
		if err != nil {
			return nil, err
		}
		return GotoLabel{Label: label}, nil
	case opJump:
		c := &cursor{buf: operand, base: start}
		offset, err := c.i16()
		if err != nil {
			return nil, err
		}
		return Jump{Offset: offset}, nil
	case opIf:
		c := &cursor{buf: operand, base: start}
		offset, err := c.i16()
		if err != nil {
			return nil, err
		}
		return If{Offset: offset}, nil
	default:
		return Unknown{Opcode: byte(op), Operand: operand}, nil
	}
}
