package kpi

import (
	"github.com/wfm-tools/escala-go/pkg/escala/classify"
	"github.com/wfm-tools/escala-go/pkg/escala/models"
)

// MonthlyCounts summarizes one date column of the monthly sheet.
type MonthlyCounts struct {
	Date string `json:"date"`
	// Found is false when the table has no such date column.
	Found bool `json:"found"`
	Total int  `json:"total"`
	// Present counts rows on shift (T, chat or other work).
	Present int `json:"present"`
	Off     int `json:"off"`
	Leave   int `json:"leave"`
	Break   int `json:"break"`
	Other   int `json:"other"`
	// PresentOnQueue counts present rows whose team is a chat-relevant queue.
	PresentOnQueue int                        `json:"present_on_queue"`
	ByCategory     map[classify.Category]int `json:"by_category"`
}

// Monthly counts the rows of table by the status in date column. Divider
// rows are skipped. A missing column yields zero counts.
func Monthly(table *models.Table, date string, cfg Config) MonthlyCounts {
	out := MonthlyCounts{Date: date, ByCategory: map[classify.Category]int{}}
	col := table.ColumnIndex(date)
	if col < 0 {
		return out
	}
	out.Found = true

	cls := cfg.classifier()
	for _, row := range table.People() {
		cat := cls.Classify(row.Cells[col])
		out.Total++
		out.ByCategory[cat]++
		switch {
		case cat.Working():
			out.Present++
			if cfg.OnQueue(table.Value(row, models.ColTeam)) {
				out.PresentOnQueue++
			}
		case cat == classify.DayOff:
			out.Off++
		case cat == classify.Leave:
			out.Leave++
		case cat == classify.Break:
			out.Break++
		default:
			out.Other++
		}
	}
	return out
}

// DateColumns returns the names of the date columns of table, in order.
func DateColumns(table *models.Table) []string {
	var out []string
	for _, i := range table.ColumnsOfKind(models.KindDate) {
		out = append(out, table.Columns[i].Name)
	}
	return out
}
