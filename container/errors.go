package container

import "fmt"

// FormatError reports a malformed top-level container: a truncated header,
// an action_size that overruns the remaining bytes, or trailing bytes that
// don't form a valid pad.
type FormatError struct {
	Offset  int
	Message string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("💥 FormatError: %s (offset %d)", e.Message, e.Offset)
}
