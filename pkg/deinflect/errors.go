package deinflect

import "github.com/cognicore/deinflect/pkg/deinflect/internalerr"

// InvalidInputError is returned for input the engine refuses to process.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string { return "deinflect: " + e.Msg }

func (e *InvalidInputError) Unwrap() error { return internalerr.ErrInvalidInput }
