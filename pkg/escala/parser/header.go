package parser

import "strings"

// HeaderStatus is the outcome of a header search.
type HeaderStatus int

const (
	// HeaderNotFound means no row in the window qualified.
	HeaderNotFound HeaderStatus = iota
	// HeaderFound means Index and Columns are set.
	HeaderFound
)

// HeaderParams holds parameters for header row detection.
type HeaderParams struct {
	// Window is the number of leading rows scanned.
	Window int
	// NameKeywords are the normalized cell values that signal the name column.
	NameKeywords []string
	// CorroboratingExact are normalized cell values that confirm a candidate row.
	CorroboratingExact []string
	// CorroboratingContains are substrings that confirm a candidate row.
	CorroboratingContains []string
	// RequireCorroboration rejects rows that only carry the name signal.
	RequireCorroboration bool
}

// DefaultHeaderParams returns the parameters used for daily sheets.
func DefaultHeaderParams() HeaderParams {
	return HeaderParams{
		Window:                15,
		NameKeywords:          []string{"NOME", "NOMES"},
		CorroboratingExact:    []string{"LIDER"},
		CorroboratingContains: []string{"HORARIO"},
		RequireCorroboration:  true,
	}
}

// MonthlyHeaderParams returns the parameters used for the monthly sheet,
// whose header sits near the top.
func MonthlyHeaderParams() HeaderParams {
	p := DefaultHeaderParams()
	p.Window = 5
	return p
}

// HeaderResult is the tagged result of DetectHeader.
type HeaderResult struct {
	Status HeaderStatus
	// Index is the 0-based row index of the header.
	Index int
	// Cells holds the normalized header cells.
	Cells []string
}

// Found reports whether a header row was located.
func (r HeaderResult) Found() bool {
	return r.Status == HeaderFound
}

type scanState int

const (
	stateScanning scanState = iota
	stateCandidate
	stateConfirmed
)

// DetectHeader returns the first row among the leading params.Window rows that
// looks like a header. A row is a candidate when one of its cells equals a
// name keyword; it is confirmed immediately, or only when a corroborating
// cell is present if params.RequireCorroboration is set.
func DetectHeader(rows [][]string, params HeaderParams) HeaderResult {
	window := params.Window
	if window <= 0 || window > len(rows) {
		window = len(rows)
	}

	for idx := 0; idx < window; idx++ {
		cells := normalizeRow(rows[idx])
		state := stateScanning
		if hasAny(cells, params.NameKeywords) {
			state = stateCandidate
		}
		if state == stateCandidate {
			if !params.RequireCorroboration || corroborates(cells, params) {
				state = stateConfirmed
			}
		}
		if state == stateConfirmed {
			return HeaderResult{Status: HeaderFound, Index: idx, Cells: cells}
		}
	}
	return HeaderResult{Status: HeaderNotFound, Index: -1}
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = Normalize(c)
	}
	return out
}

func hasAny(cells, values []string) bool {
	for _, c := range cells {
		for _, v := range values {
			if c == v {
				return true
			}
		}
	}
	return false
}

func corroborates(cells []string, params HeaderParams) bool {
	if hasAny(cells, params.CorroboratingExact) {
		return true
	}
	for _, c := range cells {
		for _, sub := range params.CorroboratingContains {
			if sub != "" && strings.Contains(c, sub) {
				return true
			}
		}
	}
	return false
}
