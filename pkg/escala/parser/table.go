package parser

import (
	"strings"

	"github.com/wfm-tools/escala-go/pkg/escala/models"
)

// TableParams holds parameters for reshaping raw rows into a table.
type TableParams struct {
	Header HeaderParams
	// MaxColumns truncates the table; 0 keeps every column.
	MaxColumns int
	// RequireTeam drops person rows whose team cell is blank.
	RequireTeam bool
	// IsDivider reports whether a name is a section label. May be nil.
	IsDivider func(name string) bool
}

// BuildTable locates the header row and reshapes the rows below it into a
// table. The second result is the header search outcome; when it is not
// found the table is nil.
func BuildTable(sheet string, kind models.SheetKind, rows [][]string, params TableParams) (*models.Table, HeaderResult) {
	header := DetectHeader(rows, params.Header)
	if !header.Found() {
		return nil, header
	}

	body := rows[header.Index+1:]
	width := Width(rows[header.Index:])
	if width < len(header.Cells) {
		width = len(header.Cells)
	}
	if params.MaxColumns > 0 && width > params.MaxColumns {
		width = params.MaxColumns
	}

	cells := make([]string, width)
	labels := make([]string, width)
	copy(cells, header.Cells)
	copy(labels, rows[header.Index])
	names := NameColumns(cells)

	table := &models.Table{
		Sheet:     sheet,
		Kind:      kind,
		HeaderRow: header.Index,
		Columns:   make([]models.Column, width),
	}
	for i, name := range names {
		table.Columns[i] = models.Column{
			Name:  name,
			Label: strings.TrimSpace(labels[i]),
			Kind:  models.KindOfColumn(name),
		}
	}

	nameIdx := table.ColumnIndex(models.ColName)
	teamIdx := table.ColumnIndex(models.ColTeam)
	for i, raw := range body {
		row := models.Row{
			Line:  header.Index + i + 2,
			Cells: padRow(raw, width),
		}
		name := ""
		if nameIdx >= 0 {
			name = strings.TrimSpace(row.Cells[nameIdx])
		}
		if name == "" {
			continue
		}
		if params.IsDivider != nil && params.IsDivider(name) {
			row.Divider = true
			table.Rows = append(table.Rows, row)
			continue
		}
		if params.RequireTeam && teamIdx >= 0 && strings.TrimSpace(row.Cells[teamIdx]) == "" {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	table.SourceRows = len(table.Rows)

	return table, header
}

func padRow(raw []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(raw); i++ {
		out[i] = strings.TrimSpace(raw[i])
	}
	return out
}
