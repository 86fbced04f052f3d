package persist

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrSlotEmpty = errors.New("slot holds no document")
)

// SlotReadError is returned when the durable slot exists but cannot be read.
type SlotReadError struct {
	Slot  string
	Cause error
}

func (e *SlotReadError) Error() string {
	return fmt.Sprintf("failed to read slot %s: %v", e.Slot, e.Cause)
}

func (e *SlotReadError) Unwrap() error {
	return e.Cause
}

// SlotWriteError is returned when the durable slot cannot be written.
type SlotWriteError struct {
	Slot  string
	Cause error
}

func (e *SlotWriteError) Error() string {
	return fmt.Sprintf("failed to write slot %s: %v", e.Slot, e.Cause)
}

func (e *SlotWriteError) Unwrap() error {
	return e.Cause
}
