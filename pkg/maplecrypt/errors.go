package maplecrypt

import (
	"errors"
	"fmt"
)

var (
	// ErrSequenceMismatch is matched by every SequenceMismatchError.
	ErrSequenceMismatch = errors.New("maplecrypt: sequence mismatch")
	// ErrInvalidLength reports a frame whose declared length is negative or
	// exceeds the bytes supplied.
	ErrInvalidLength = errors.New("maplecrypt: invalid frame length")
)

// SequenceMismatchError reports a frame whose decoded sequence does not equal
// the session version. The cipher state has already advanced and the session
// cannot recover.
type SequenceMismatchError struct {
	Version uint32
	Got     uint32
}

func (e *SequenceMismatchError) Error() string {
	return fmt.Sprintf("maplecrypt: packet has invalid sequence header: got %d, expected %d", e.Got, e.Version)
}

// Is reports whether target is ErrSequenceMismatch.
func (e *SequenceMismatchError) Is(target error) bool {
	return target == ErrSequenceMismatch
}
