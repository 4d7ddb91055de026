package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the reference image or the folder does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDecode is returned when a file cannot be decoded as an image.
	ErrDecode = errors.New("cannot decode image")
	// ErrEmptyFolder is returned when there is nothing to pick a reference from.
	ErrEmptyFolder = errors.New("folder has no comparable images")
)

// DecodeError names the file that failed to decode. It matches both
// ErrDecode and the underlying cause with errors.Is.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
