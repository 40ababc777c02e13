package kpi

import (
	"slices"
	"strings"
	"time"

	"github.com/wfm-tools/escala-go/pkg/escala/models"
	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// Mode selects a row view of a daily sheet.
type Mode string

const (
	ModeAll      Mode = ""
	ModeChatOnly Mode = "chat"
	ModeOffOnly  Mode = "off"
)

// ParseMode maps a query value onto a Mode; unknown values mean ModeAll.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeChatOnly:
		return ModeChatOnly
	case ModeOffOnly:
		return ModeOffOnly
	default:
		return ModeAll
	}
}

// FilterAndSort keeps the rows that have a chat slot (ModeChatOnly) or are off
// the whole day (ModeOffOnly), sorted by shift start. Rows without a
// parseable start time go last. Divider rows are dropped. ModeAll returns
// table unchanged.
func FilterAndSort(table *models.Table, mode Mode, cfg Config) *models.Table {
	if mode == ModeAll {
		return table
	}
	slots := table.ColumnsOfKind(models.KindTimeSlot)
	var rows []models.Row
	for _, row := range table.People() {
		joined := joinSlots(row, slots)
		switch mode {
		case ModeChatOnly:
			if cfg.isChat(joined) {
				rows = append(rows, row)
			}
		case ModeOffOnly:
			if cfg.isOff(joined) {
				rows = append(rows, row)
			}
		}
	}

	start := table.ColumnIndex(models.ColStart)
	slices.SortStableFunc(rows, func(a, b models.Row) int {
		return compareStart(cellAt(a, start), cellAt(b, start))
	})
	return table.Derive(rows)
}

func cellAt(row models.Row, i int) string {
	if i < 0 || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i]
}

func compareStart(a, b string) int {
	ta, okA := ParseClock(a)
	tb, okB := ParseClock(b)
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

// ParseClock parses a shift time written as HH:MM (or HH:MM:SS as exported by
// spreadsheets). It reports false instead of failing.
func ParseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Selection holds the sidebar filters.
type Selection struct {
	Leaders []string
	Teams   []string
	// Search matches names case-insensitively.
	Search string
}

// Empty reports whether the selection filters nothing.
func (s Selection) Empty() bool {
	return len(s.Leaders) == 0 && len(s.Teams) == 0 && strings.TrimSpace(s.Search) == ""
}

// Select keeps rows matching every non-empty criterion. Divider rows are kept
// only when no criterion is set. An empty selection returns table unchanged.
func Select(table *models.Table, sel Selection) *models.Table {
	if sel.Empty() {
		return table
	}
	leaders := normalizedSet(sel.Leaders)
	teams := normalizedSet(sel.Teams)
	search := parser.Normalize(sel.Search)

	var rows []models.Row
	for _, row := range table.People() {
		if len(leaders) > 0 && !leaders[parser.Normalize(table.Value(row, models.ColLeader))] {
			continue
		}
		if len(teams) > 0 && !teams[parser.Normalize(table.Value(row, models.ColTeam))] {
			continue
		}
		if search != "" && !strings.Contains(parser.Normalize(table.Value(row, models.ColName)), search) {
			continue
		}
		rows = append(rows, row)
	}
	return table.Derive(rows)
}

func normalizedSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if n := parser.Normalize(v); n != "" {
			set[n] = true
		}
	}
	return set
}
