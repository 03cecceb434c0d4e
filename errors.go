package htdb

import "fmt"

// CreateFileError is returned when the snapshot file could not be created
// on the underlying filesystem.
type CreateFileError struct {
	Message string
}

func (e *CreateFileError) Error() string {
	return fmt.Sprintf("create file error: %s", e.Message)
}

// OpenFileError is returned when the snapshot file could not be opened for
// reading.
type OpenFileError struct {
	Message string
}

func (e *OpenFileError) Error() string {
	return fmt.Sprintf("open file error: %s", e.Message)
}

// SerializeError is returned when the snapshot encoder or decoder rejects
// the byte stream.
type SerializeError struct {
	Message string
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("serialize error: %s", e.Message)
}

// EncodingError is reserved for I/O encoding layers sitting below the
// codec (e.g. a foreign binding's own transport encoding). The core engine
// does not raise it itself, but keeps it part of the taxonomy so callers
// can distinguish it from SerializeError.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %s", e.Message)
}

// InvalidRangeError is returned by Range when lo > hi.
type InvalidRangeError struct {
	Message string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s", e.Message)
}

func newCreateFileError(err error) error {
	return &CreateFileError{Message: err.Error()}
}

func newOpenFileError(err error) error {
	return &OpenFileError{Message: err.Error()}
}

func newSerializeError(err error) error {
	return &SerializeError{Message: err.Error()}
}

func newInvalidRangeError(message string) error {
	return &InvalidRangeError{Message: message}
}
