package escala

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable indicates the spreadsheet could not be reached or read.
	ErrSourceUnavailable = errors.New("spreadsheet source unavailable")
	// ErrHeaderNotFound indicates no header row was found in the lookahead window.
	ErrHeaderNotFound = errors.New("header row not found")
	// ErrColumnMissing indicates a column an operation needs is absent.
	ErrColumnMissing = errors.New("column missing")
	// ErrSheetNotFound indicates the workbook has no such sheet.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrFilteredSave indicates an attempt to save a filtered subset over the
	// full sheet.
	ErrFilteredSave = errors.New("refusing to save a filtered table")
)

// LoadError represents a failure loading or saving a sheet.
type LoadError struct {
	Sheet     string
	Component string // "source", "header", "rows", "save"
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.Sheet, e.Component, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(sheet, component string, err error) *LoadError {
	return &LoadError{
		Sheet:     sheet,
		Component: component,
		Err:       err,
	}
}
