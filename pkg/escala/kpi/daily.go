package kpi

import (
	"strings"

	"github.com/wfm-tools/escala-go/pkg/escala/models"
	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// DailyCounts summarizes a daily sheet.
type DailyCounts struct {
	// Working counts rows with a chat slot.
	Working int `json:"working"`
	// Off counts rows of chat-relevant queues that are off the whole day.
	Off int `json:"off"`
}

// Daily counts working and off rows of a daily sheet. A row is working when
// its joined slots contain a chat marker. It is off when they contain a
// day-off marker and no working marker, and only when the team is a
// chat-relevant queue, since the figure tracks coverage of those queues.
func Daily(table *models.Table, cfg Config) DailyCounts {
	var out DailyCounts
	slots := table.ColumnsOfKind(models.KindTimeSlot)
	for _, row := range table.People() {
		joined := joinSlots(row, slots)
		if cfg.isChat(joined) {
			out.Working++
			continue
		}
		if cfg.isOff(joined) && cfg.OnQueue(table.Value(row, models.ColTeam)) {
			out.Off++
		}
	}
	return out
}

func (c Config) isChat(joined string) bool {
	return containsAny(joined, c.ChatMarkers)
}

func (c Config) isOff(joined string) bool {
	return containsAny(joined, c.DayOffMarkers) && !containsAny(joined, c.WorkingMarkers)
}

// joinSlots concatenates the normalized slot cells of a row.
func joinSlots(row models.Row, slots []int) string {
	parts := make([]string, 0, len(slots))
	for _, i := range slots {
		if i < len(row.Cells) {
			parts = append(parts, parser.Normalize(row.Cells[i]))
		}
	}
	return strings.Join(parts, "|")
}
