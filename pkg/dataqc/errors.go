package dataqc

import (
	"errors"
	"fmt"
)

// MissingInputMessage is shown to users who did not supply both files.
const MissingInputMessage = "Please upload both a PDF specification file and an Excel data file."

// ErrMissingInput indicates the specification or the workbook was not supplied.
var ErrMissingInput = errors.New(MissingInputMessage)

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ExtractionError represents an error while reading one sheet.
type ExtractionError struct {
	SheetName string
	Component string // "cells"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}

// ValidateInputs rejects a request that lacks either document.
func ValidateInputs(specification, workbook []byte) error {
	if len(specification) == 0 || len(workbook) == 0 {
		return ErrMissingInput
	}
	return nil
}
