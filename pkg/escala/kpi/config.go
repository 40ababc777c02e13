// Package kpi derives headcount and staffing figures from schedule tables.
package kpi

import (
	"strings"

	"github.com/wfm-tools/escala-go/pkg/escala/classify"
	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// Config holds the markers and thresholds used by the aggregations.
type Config struct {
	// Queues are team-name patterns of the chat-relevant queues; a team
	// matches when it contains one of them (accent and case insensitive).
	Queues []string `yaml:"queues" json:"queues"`
	// ChatMarkers mark a row as working when found in its joined slots.
	ChatMarkers []string `yaml:"chat_markers" json:"chat_markers"`
	// DayOffMarkers mark a row as off when found in its joined slots.
	DayOffMarkers []string `yaml:"day_off_markers" json:"day_off_markers"`
	// WorkingMarkers veto the off status when any is found.
	WorkingMarkers []string `yaml:"working_markers" json:"working_markers"`
	// ChatCodes and BreakCodes are matched exactly per slot by the hourly scan.
	ChatCodes  []string `yaml:"chat_codes" json:"chat_codes"`
	BreakCodes []string `yaml:"break_codes" json:"break_codes"`
	// HourFrom and HourTo bound the hourly scan, inclusive.
	HourFrom int `yaml:"hour_from" json:"hour_from"`
	HourTo   int `yaml:"hour_to" json:"hour_to"`

	// Classifier classifies monthly cells; nil means classify.Default().
	Classifier *classify.Classifier `yaml:"-" json:"-"`
}

// DefaultConfig returns the markers used by the operation.
func DefaultConfig() Config {
	return Config{
		Queues:         []string{"SUPORTE", "EMERGENCIA"},
		ChatMarkers:    []string{"CHAT"},
		DayOffMarkers:  []string{"F"},
		WorkingMarkers: []string{"CHAT", "E-MAIL", "EMAIL", "FINANCEIRO", "BACKOFFICE", "REEMBOLSOS", "TREINO", "1:1"},
		ChatCodes:      []string{"CHAT"},
		BreakCodes:     []string{"P", "PAUSA"},
		HourFrom:       9,
		HourTo:         22,
	}
}

func (c Config) classifier() *classify.Classifier {
	if c.Classifier != nil {
		return c.Classifier
	}
	return defaultClassifier
}

var defaultClassifier = classify.Default()

// OnQueue reports whether team is one of the chat-relevant queues.
func (c Config) OnQueue(team string) bool {
	return containsAny(parser.Normalize(team), c.Queues)
}

// containsAny reports whether s contains any of the markers, compared in
// normalized form.
func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		m = parser.Normalize(m)
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func equalsAny(s string, codes []string) bool {
	for _, c := range codes {
		if s == parser.Normalize(c) {
			return true
		}
	}
	return false
}
