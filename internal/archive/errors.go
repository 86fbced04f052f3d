package archive

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrEntryTooLarge = errors.New("archive entry exceeds size limit")
	ErrNotText       = errors.New("archive entry is not valid UTF-8 text")
)

// DecodeError is returned when an archive or one of its entries cannot be decoded.
// Entry is empty when the container itself is unreadable.
type DecodeError struct {
	Entry string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("failed to decode archive: %v", e.Cause)
	}
	return fmt.Sprintf("failed to decode archive entry %s: %v", e.Entry, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// EncodeError is returned when writing an archive fails.
type EncodeError struct {
	Entry string
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode archive entry %s: %v", e.Entry, e.Cause)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}
