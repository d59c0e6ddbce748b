package registry

import "errors"

var (
	// ErrFolderExists is returned when a folder name is registered twice.
	ErrFolderExists = errors.New("registry: folder already exists")
	// ErrFolderNotFound is returned when a folder lookup misses.
	ErrFolderNotFound = errors.New("registry: folder not found")
	// ErrFolderPathMissing is returned when a folder points at a directory
	// that does not exist.
	ErrFolderPathMissing = errors.New("registry: folder path does not exist")

	ErrInvalidFunctionName = errors.New("registry: invalid function name")
	ErrInvalidCallback     = errors.New("registry: invalid function callback")
	ErrFunctionExists      = errors.New("registry: function already registered")
	ErrFunctionNotFound    = errors.New("registry: function not found")

	// ErrInvalidTargets is returned when Data.Add receives a target that is
	// neither nil, a string nor a list of strings.
	ErrInvalidTargets = errors.New("registry: invalid data targets")
)
