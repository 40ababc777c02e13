package kpi

import "github.com/wfm-tools/escala-go/pkg/escala/models"

// Report gathers the figures of one sheet.
type Report struct {
	Sheet      string           `json:"sheet"`
	Kind       models.SheetKind `json:"kind"`
	Rows       int              `json:"rows"`
	Monthly    []MonthlyCounts  `json:"monthly,omitempty"`
	Daily      *DailyCounts     `json:"daily,omitempty"`
	Hourly     []HourCount      `json:"hourly,omitempty"`
	Bottleneck *Bottleneck      `json:"bottleneck,omitempty"`
}

// Summarize computes the figures that apply to the kind of table. For a
// monthly table it counts the given date, or every date column when date is
// empty.
func Summarize(table *models.Table, date string, cfg Config) Report {
	r := Report{Sheet: table.Sheet, Kind: table.Kind, Rows: len(table.People())}
	switch table.Kind {
	case models.SheetMonthly:
		dates := DateColumns(table)
		if date != "" {
			dates = []string{date}
		}
		for _, d := range dates {
			r.Monthly = append(r.Monthly, Monthly(table, d, cfg))
		}
	case models.SheetDaily:
		d := Daily(table, cfg)
		r.Daily = &d
		r.Hourly = Hourly(table, cfg)
		r.Bottleneck = HourlyBottleneck(table, cfg)
	}
	return r
}
