package reader

import (
	"encoding/binary"
	"fmt"

	"github.com/avm1go/decompiler/pool"
)

// cursor walks one opcode's operand slice, reporting ParseError against the
// absolute offset of the instruction that owns it.
type cursor struct {
	buf  []byte
	pos  int
	base int
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.buf) }

func (c *cursor) u8() (byte, error) {
	if c.pos+1 > len(c.buf) {
		return 0, ParseError{Offset: c.base, Message: "truncated operand reading u8"}
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.pos+2 > len(c.buf) {
		return 0, ParseError{Offset: c.base, Message: "truncated operand reading u16"}
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) i16() (int16, error) {
	v, err := c.u16()
	return int16(v), err
}

func (c *cursor) u32() (uint32, error) {
	if c.pos+4 > len(c.buf) {
		return 0, ParseError{Offset: c.base, Message: "truncated operand reading u32"}
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if c.pos+8 > len(c.buf) {
		return 0, ParseError{Offset: c.base, Message: "truncated operand reading u64"}
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// poolString reads a u16 constant-pool index and resolves it.
func (c *cursor) poolString(p *pool.Pool) (string, error) {
	idx, err := c.u16()
	if err != nil {
		return "", err
	}
	s, err := p.Get(int(idx))
	if err != nil {
		return "", ParseError{Offset: c.base, Message: fmt.Sprintf("%s", err)}
	}
	return s, nil
}
