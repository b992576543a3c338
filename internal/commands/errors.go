package commands

import "fmt"

// AccessError reports a directory or ignore file that could not be read.
type AccessError struct {
	Path string
	Err  error
}

// Error returns the error string.
func (accessError *AccessError) Error() string {
	return fmt.Sprintf("accessing %s: %v", accessError.Path, accessError.Err)
}

// Unwrap exposes the wrapped error.
func (accessError *AccessError) Unwrap() error {
	return accessError.Err
}
