package codec

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every RangeError.
var ErrOutOfRange = errors.New("codec: out of range")

// RangeError reports a read, peek or skip past the bounds of the buffer.
type RangeError struct {
	Op       string
	Position int
	Width    int
	Length   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("codec: %s of %d bytes at position %d exceeds buffer length %d",
		e.Op, e.Width, e.Position, e.Length)
}

// Is reports whether target is ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
