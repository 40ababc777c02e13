// Package models defines data structures for schedule tables.
package models

// Identity column names, in their normalized form.
const (
	ColName      = "NOME"
	ColEmail     = "EMAIL"
	ColAdmission = "ADMISSAO"
	ColTeam      = "ILHA"
	ColLeader    = "LIDER"
	ColStart     = "ENTRADA"
	ColEnd       = "SAIDA"
)

// ColumnKind tells fixed fields apart from schedule columns.
type ColumnKind int

const (
	// KindField is an identity or bookkeeping column (NOME, ILHA, ...).
	KindField ColumnKind = iota
	// KindTimeSlot is a time-of-day column named HH:MM.
	KindTimeSlot
	// KindDate is a calendar-day column named DD/MM.
	KindDate
)

func (k ColumnKind) String() string {
	switch k {
	case KindTimeSlot:
		return "time_slot"
	case KindDate:
		return "date"
	default:
		return "field"
	}
}

// Column describes one column of a Table.
type Column struct {
	// Name is the normalized, unique column identifier.
	Name string `json:"name"`
	// Label is the header text as it appears in the sheet.
	Label string `json:"label"`
	// Kind is derived from Name.
	Kind ColumnKind `json:"kind"`
}

// Row is a person row (or a divider row) of a schedule table.
type Row struct {
	// Line is the 1-based line of the row in the source sheet.
	Line int `json:"line"`
	// Cells holds one value per table column.
	Cells []string `json:"cells"`
	// Divider marks a section label row such as "STAFF" or "N2".
	Divider bool `json:"divider,omitempty"`
}

// Table is a schedule sheet reshaped into named columns and person rows.
type Table struct {
	// Sheet is the sheet (tab) name the table was loaded from.
	Sheet string `json:"sheet"`
	// Kind is the sheet kind.
	Kind SheetKind `json:"kind"`
	// HeaderRow is the 0-based index of the header row in the raw sheet.
	HeaderRow int `json:"header_row"`
	Columns   []Column `json:"columns"`
	Rows      []Row    `json:"rows"`
	// Filtered is set on tables derived from another table by a selection.
	Filtered bool `json:"filtered,omitempty"`
	// SourceRows is the row count of the unfiltered table.
	SourceRows int `json:"source_rows"`
}

// KindOfColumn classifies a normalized column name.
func KindOfColumn(name string) ColumnKind {
	for _, r := range name {
		switch r {
		case ':':
			return KindTimeSlot
		case '/':
			return KindDate
		}
	}
	return KindField
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnsOfKind returns the indexes of all columns of the given kind, in order.
func (t *Table) ColumnsOfKind(kind ColumnKind) []int {
	var idx []int
	for i, c := range t.Columns {
		if c.Kind == kind {
			idx = append(idx, i)
		}
	}
	return idx
}

// Value returns the cell of row r in the named column, or "" if the column
// does not exist.
func (t *Table) Value(r Row, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// People returns the rows that are not dividers.
func (t *Table) People() []Row {
	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !r.Divider {
			out = append(out, r)
		}
	}
	return out
}

// Derive returns a copy of t holding only the given rows, marked as filtered.
func (t *Table) Derive(rows []Row) *Table {
	out := *t
	out.Columns = append([]Column(nil), t.Columns...)
	out.Rows = rows
	out.Filtered = true
	return &out
}

// Records returns the header labels followed by every row, as written back to
// the source sheet.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	out = append(out, header)
	for _, r := range t.Rows {
		out = append(out, append([]string(nil), r.Cells...))
	}
	return out
}
