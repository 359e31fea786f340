package domain

import "errors"

var (
	ErrInvalidGamePath    = errors.New("invalid game path")
	ErrInvalidStoragePath = errors.New("invalid storage path")
	ErrInvalidTempPath    = errors.New("invalid temporary path")
	ErrNotAFile           = errors.New("given path is not a file")
	ErrUnsupportedArchive = errors.New("unsupported archive format")
	ErrModExists          = errors.New("mod already exists")
	ErrCannotInfer        = errors.New("cannot infer manifest")
	ErrModNotFound        = errors.New("mod not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrPatchName          = errors.New("malformed patch file name")
	ErrOptionRange        = errors.New("option index out of range")
	ErrSubOptionRange     = errors.New("sub-option index out of range")
	ErrDestinationExists  = errors.New("destination already exists")
)
