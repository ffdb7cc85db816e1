package reader

// takeBody lifts n bytes directly from the main cursor, outside the
// declared operand region - the code_length-extends-the-action-length quirk
// DefineFunction/DefineFunction2 both share.
func (r *Reader) takeBody(start, n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, ParseError{Offset: start, Message: "function body extends past end of action body"}
	}
	body := r.data[r.pos : r.pos+n]
	r.pos += n
	return body, nil
}

func (r *Reader) readDefineFunction(start int, operand []byte) (Action, error) {
	c := &cursor{buf: operand, base: start}
	name, err := c.poolString(r.pool)
	if err != nil {
		return nil, err
	}
	paramCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	params := make([]string, 0, paramCount)
	for i := 0; i < int(paramCount); i++ {
		p, err := c.poolString(r.pool)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	codeLen, err := c.u16()
	if err != nil {
		return nil, err
	}
	body, err := r.takeBody(start, int(codeLen))
	if err != nil {
		return nil, err
	}
	return DefineFunction{Name: name, Params: params, Body: body}, nil
}

// readDefineFunction2 additionally reads a register_count and per-parameter
// register bindings. A register_index of zero falls back to register 1,
// matching the fallback the original source applies for that edge case.
func (r *Reader) readDefineFunction2(start int, operand []byte) (Action, error) {
	c := &cursor{buf: operand, base: start}
	name, err := c.poolString(r.pool)
	if err != nil {
		return nil, err
	}
	paramCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	registerCount, err := c.u8()
	if err != nil {
		return nil, err
	}
	flags, err := c.u16()
	if err != nil {
		return nil, err
	}
	params := make([]FunctionParam, 0, paramCount)
	for i := 0; i < int(paramCount); i++ {
		regIdx, err := c.u8()
		if err != nil {
			return nil, err
		}
		pname, err := c.poolString(r.pool)
		if err != nil {
			return nil, err
		}
		if regIdx == 0 {
			regIdx = 1
		}
		params = append(params, FunctionParam{Name: pname, Register: regIdx})
	}
	codeLen, err := c.u16()
	if err != nil {
		return nil, err
	}
	body, err := r.takeBody(start, int(codeLen))
	if err != nil {
		return nil, err
	}
	return DefineFunction2{
		Name:          name,
		Params:        params,
		RegisterCount: registerCount,
		Flags:         flags,
		Body:          body,
	}, nil
}
