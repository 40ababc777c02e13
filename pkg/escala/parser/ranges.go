package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is a block of cells in 1-based coordinates, bounds inclusive.
type Range struct {
	R1 int
	C1 int
	R2 int
	C2 int
}

// String renders the range in A1 notation (A2:AN300).
func (r Range) String() string {
	start, err := excelize.CoordinatesToCellName(r.C1, r.R1)
	if err != nil {
		return ""
	}
	end, err := excelize.CoordinatesToCellName(r.C2, r.R2)
	if err != nil {
		return ""
	}
	return start + ":" + end
}

// RangeAt returns the range of rows x cols cells whose top-left corner is
// the anchor cell (A2).
func RangeAt(anchor string, rows, cols int) (Range, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(anchor, "$", ""))
	if err != nil {
		return Range{}, fmt.Errorf("invalid anchor %q: %w", anchor, err)
	}
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return Range{R1: row, C1: col, R2: row + rows - 1, C2: col + cols - 1}, nil
}

// ParseRange parses a range string like $A$1:$D$10.
func ParseRange(rangeStr string) (Range, error) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range %q", rangeStr)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Range{}, err
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Range{}, err
	}

	return Range{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}

// Reference renders a sheet-qualified reference: 'DIM 01/10'!A2:D10.
func Reference(sheet string, r Range) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + r.String()
}

// SplitReference splits 'Sheet'!A1:B2 or Sheet!A1:B2 into sheet and range.
func SplitReference(ref string) (sheet, rangeStr string) {
	ref = strings.TrimSpace(ref)
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", ref
	}
	sheet = ref[:idx]
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, ref[idx+1:]
}
