package reader

import "fmt"

// ParseError covers every way the byte stream can fail to decode: I/O
// underrun, an invalid Push value-type tag, or an out-of-range constant pool
// index. It always aborts decoding regardless of strict/lossy mode; lossy
// mode's forgiveness applies one layer up, in the dispatcher.
type ParseError struct {
	Offset  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("💥 ParseError: %s (offset %d)", e.Message, e.Offset)
}

func (e ParseError) Kind() string { return "ParseError" }
