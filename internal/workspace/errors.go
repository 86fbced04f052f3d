package workspace

import (
	"errors"
)

// -- Sentinels --

var (
	ErrNoActiveFile  = errors.New("no file is selected")
	ErrNoExecutor    = errors.New("no execution surface configured")
	ErrNoAssistant   = errors.New("no assistant configured")
	ErrNothingToSave = errors.New("workspace has no files")
)
