// Package source reads and writes the raw rows of schedule workbooks.
package source

import (
	"context"
	"errors"
)

// ErrReadOnly is returned by sources that cannot write back.
var ErrReadOnly = errors.New("source is read-only")

// ErrNoSheet indicates the workbook has no sheet with the requested name.
var ErrNoSheet = errors.New("sheet not found")

// Source is a spreadsheet-like workbook. Rows returns cell values as
// displayed strings; rows may have different lengths. Callers must not
// modify the returned slices.
type Source interface {
	// Sheets lists the sheet names in workbook order.
	Sheets(ctx context.Context) ([]string, error)
	// Rows returns every row of a sheet.
	Rows(ctx context.Context, sheet string) ([][]string, error)
	// WriteRows replaces the block starting at the anchor cell (A2) with
	// records in a single bulk write.
	WriteRows(ctx context.Context, sheet, anchor string, records [][]string) error
}
