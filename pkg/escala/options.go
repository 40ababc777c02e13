// Package escala loads shift-schedule workbooks and interprets them.
package escala

import (
	"time"

	"github.com/wfm-tools/escala-go/pkg/escala/classify"
	"github.com/wfm-tools/escala-go/pkg/escala/kpi"
	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// Options configures how sheets are found, loaded and summarized.
type Options struct {
	// MonthlySheet names the monthly overview sheet. If empty, the first
	// sheet that is neither daily nor the people sheet is used.
	MonthlySheet string `yaml:"monthly_sheet"`
	// DailyPrefix marks daily detail sheets (compared normalized).
	DailyPrefix string `yaml:"daily_prefix"`
	// PeopleSheet names the leader/team lookup sheet.
	PeopleSheet string `yaml:"people_sheet"`

	MonthlyHeader parser.HeaderParams `yaml:"-"`
	DailyHeader   parser.HeaderParams `yaml:"-"`
	// MonthlyWindow and DailyWindow override the header lookahead windows.
	MonthlyWindow int `yaml:"monthly_window"`
	DailyWindow   int `yaml:"daily_window"`
	// MonthlyMaxColumns truncates the monthly sheet to exclude scratch
	// columns. Daily sheets are never truncated.
	MonthlyMaxColumns int `yaml:"monthly_max_columns"`
	// RequireTeam drops person rows without a team.
	RequireTeam bool `yaml:"require_team"`
	// DividerLabels are the section labels found in the name column.
	DividerLabels []string `yaml:"divider_labels"`

	// CacheTTL is how long fetched rows are reused.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	KPI kpi.Config `yaml:"kpi"`
}

// DefaultOptions returns the options matching the operation's workbook.
func DefaultOptions() Options {
	return Options{
		DailyPrefix:       "DIM",
		PeopleSheet:       "PESSOAS",
		MonthlyHeader:     parser.MonthlyHeaderParams(),
		DailyHeader:       parser.DefaultHeaderParams(),
		MonthlyMaxColumns: 40,
		RequireTeam:       true,
		DividerLabels:     append([]string(nil), classify.DefaultDividerLabels...),
		CacheTTL:          10 * time.Minute,
		KPI:               kpi.DefaultConfig(),
	}
}

func (o Options) headerParams(daily bool) parser.HeaderParams {
	if daily {
		p := o.DailyHeader
		if p.NameKeywords == nil {
			p = parser.DefaultHeaderParams()
		}
		if o.DailyWindow > 0 {
			p.Window = o.DailyWindow
		}
		return p
	}
	p := o.MonthlyHeader
	if p.NameKeywords == nil {
		p = parser.MonthlyHeaderParams()
	}
	if o.MonthlyWindow > 0 {
		p.Window = o.MonthlyWindow
	}
	return p
}
