package graph

import (
	"errors"
)

// -- Sentinels --

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrParentNotFound  = errors.New("parent node not found")
	ErrParentNotFolder = errors.New("parent node is not a folder")
	ErrNotAFolder      = errors.New("node is not a folder")
	ErrNotAFile        = errors.New("node is not a file")
	ErrDuplicateID     = errors.New("duplicate node id")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidName     = errors.New("name must not contain a path delimiter")
)
