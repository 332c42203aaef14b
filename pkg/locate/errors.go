package locate

import "errors"

var (
	// ErrBadPath is returned when the binary path cannot be canonicalized
	// or has no parent directory.
	ErrBadPath = errors.New("bad path")

	// ErrBadPathEncoding is returned when a path recorded in a binary is not
	// valid text for the host platform.
	ErrBadPathEncoding = errors.New("path is not valid platform text")

	// ErrBuildIDTooShort is returned for build IDs shorter than two bytes.
	ErrBuildIDTooShort = errors.New("build ID is too short")
)
