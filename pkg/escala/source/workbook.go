package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// Workbook is a local .xlsx file. Each call opens the file, so edits made
// by other programs are picked up.
type Workbook struct {
	Path string

	mu sync.Mutex
}

// NewWorkbook returns a source over the file at path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{Path: path}
}

// Sheets lists the sheets of the workbook.
func (w *Workbook) Sheets(ctx context.Context) ([]string, error) {
	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Rows returns every row of the sheet.
func (w *Workbook) Rows(ctx context.Context, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// WriteRows overwrites the block at anchor and saves the file.
func (w *Workbook) WriteRows(ctx context.Context, sheet, anchor string, records [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	if err := parser.WriteRows(f, sheet, anchor, records); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	return f.Save()
}

func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	return parser.ExtractRows(f, sheet)
}
