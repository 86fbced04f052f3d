package execution

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrUnsupportedLanguage = errors.New("no interpreter configured for language")
)

// CommandError represents a run that could not be started or set up.
type CommandError struct {
	Cmd   string
	Stage string // "prepare", "start"
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}

func (e *CommandError) Unwrap() error { return e.Cause }
