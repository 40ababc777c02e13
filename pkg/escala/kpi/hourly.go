package kpi

import (
	"strconv"
	"strings"

	"github.com/wfm-tools/escala-go/pkg/escala/models"
	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// HourCount is the chat and break headcount of one time-slot column.
type HourCount struct {
	Column string `json:"column"`
	Hour   int    `json:"hour"`
	Chat   int    `json:"chat"`
	Break  int    `json:"break"`
}

// Bottleneck points at the weakest chat hour and the busiest break hour.
type Bottleneck struct {
	MinChatHour   string `json:"min_chat_hour"`
	MinChatCount  int    `json:"min_chat_count"`
	MaxBreakHour  string `json:"max_break_hour"`
	MaxBreakCount int    `json:"max_break_count"`
}

// Hourly counts exact chat and break codes per time-slot column whose hour
// lies in [cfg.HourFrom, cfg.HourTo]. Columns keep table order.
func Hourly(table *models.Table, cfg Config) []HourCount {
	var out []HourCount
	people := table.People()
	for _, i := range table.ColumnsOfKind(models.KindTimeSlot) {
		name := table.Columns[i].Name
		hour, ok := SlotHour(name)
		if !ok || hour < cfg.HourFrom || hour > cfg.HourTo {
			continue
		}
		hc := HourCount{Column: name, Hour: hour}
		for _, row := range people {
			cell := parser.Normalize(row.Cells[i])
			if equalsAny(cell, cfg.ChatCodes) {
				hc.Chat++
			}
			if equalsAny(cell, cfg.BreakCodes) {
				hc.Break++
			}
		}
		out = append(out, hc)
	}
	return out
}

// HourlyBottleneck returns the column with the fewest chat slots and the
// column with the most breaks. Ties go to the leftmost column. It returns nil
// when no time-slot column lies in the hour range.
func HourlyBottleneck(table *models.Table, cfg Config) *Bottleneck {
	hours := Hourly(table, cfg)
	if len(hours) == 0 {
		return nil
	}
	b := &Bottleneck{
		MinChatHour:   hours[0].Column,
		MinChatCount:  hours[0].Chat,
		MaxBreakHour:  hours[0].Column,
		MaxBreakCount: hours[0].Break,
	}
	for _, h := range hours[1:] {
		if h.Chat < b.MinChatCount {
			b.MinChatHour, b.MinChatCount = h.Column, h.Chat
		}
		if h.Break > b.MaxBreakCount {
			b.MaxBreakHour, b.MaxBreakCount = h.Column, h.Break
		}
	}
	return b
}

// SlotHour parses the hour of a time-slot column name (09:00, 9:30).
func SlotHour(name string) (int, bool) {
	head, _, ok := strings.Cut(strings.TrimSpace(name), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(head)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
