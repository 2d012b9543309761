package parser

import (
	"errors"
	"fmt"
)

// ParsingError is the fatal failure of a parse: the input could not be read
// or a selection expression could not be evaluated.
type ParsingError struct {
	FileName string
	Err      error
}

func (e *ParsingError) Error() string {
	if e.FileName == "" {
		return fmt.Sprintf("parse report: %v", e.Err)
	}
	return fmt.Sprintf("parse report %s: %v", e.FileName, e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// Fail wraps err in a ParsingError unless it already is one.
func Fail(fileName string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ParsingError
	if errors.As(err, &pe) {
		return err
	}
	return &ParsingError{FileName: fileName, Err: err}
}

// IsParsingError reports whether err carries a ParsingError.
func IsParsingError(err error) bool {
	var pe *ParsingError
	return errors.As(err, &pe)
}
