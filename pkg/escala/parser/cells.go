package parser

import (
	"github.com/xuri/excelize/v2"
)

// ExtractRows returns every row of a sheet as formatted strings, the way the
// cells are displayed in the spreadsheet. Trailing empty cells are trimmed by
// excelize, so rows may have different lengths.
func ExtractRows(f *excelize.File, sheetName string) ([][]string, error) {
	return f.GetRows(sheetName)
}

// PadBlock returns records as a rectangle as wide as the widest record,
// extended with blank rows so that it reaches oldRows, the last used row of
// the sheet. top is the 1-based row of the first record. Writing the result
// replaces the block and blanks stale rows below it in one write.
func PadBlock(records [][]string, top, oldRows int) [][]string {
	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}
	n := max(len(records), oldRows-top+1)
	out := make([][]string, n)
	for i := range out {
		row := make([]string, width)
		if i < len(records) {
			copy(row, records[i])
		}
		out[i] = row
	}
	return out
}

// WriteRows writes records starting at the anchor cell. Cells of the block
// width below the last record are blanked down to the old end of the sheet,
// so a table with fewer rows does not leave stale rows behind. Columns right
// of the block are untouched.
func WriteRows(f *excelize.File, sheetName, anchor string, records [][]string) error {
	target, err := RangeAt(anchor, len(records), 1)
	if err != nil {
		return err
	}
	old, err := f.GetRows(sheetName)
	if err != nil {
		return err
	}

	for i, rec := range PadBlock(records, target.R1, len(old)) {
		cell, err := excelize.CoordinatesToCellName(target.C1, target.R1+i)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
