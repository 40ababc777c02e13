package classify

import (
	"strings"

	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// MatchKind selects how a rule compares its codes with a cell.
type MatchKind int

const (
	// Exact matches the whole normalized cell.
	Exact MatchKind = iota
	// Contains matches any cell that contains one of the codes.
	Contains
)

// Rule maps a set of codes onto a category.
type Rule struct {
	Match    MatchKind
	Codes    []string
	Category Category
}

func (r Rule) matches(cell string) bool {
	for _, code := range r.Codes {
		switch r.Match {
		case Exact:
			if cell == code {
				return true
			}
		case Contains:
			if strings.Contains(cell, code) {
				return true
			}
		}
	}
	return false
}

// DefaultRules is the rule table, most specific first. Single-letter codes
// are exact matches and come before substring codes, because a letter like
// "F" appears inside most other codes.
var DefaultRules = []Rule{
	{Match: Exact, Codes: []string{"F", "FOLGA"}, Category: DayOff},
	{Match: Exact, Codes: []string{"P"}, Category: Break},
	{Match: Exact, Codes: []string{"T"}, Category: Scheduled},
	{Match: Exact, Codes: []string{"AF", "FR"}, Category: Leave},
	{Match: Exact, Codes: []string{"TR"}, Category: WorkingOther},
	{Match: Contains, Codes: []string{"CHAT"}, Category: WorkingChat},
	{Match: Contains, Codes: []string{"PAUSA"}, Category: Break},
	{Match: Contains, Codes: []string{"E-MAIL", "EMAIL", "FINANCEIRO", "BACKOFFICE", "REEMBOLSOS", "TREINO", "1:1"}, Category: WorkingOther},
	{Match: Contains, Codes: []string{"FERIAS", "AFASTAD"}, Category: Leave},
}

// Classifier evaluates an ordered rule table, first match wins.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules. Rule codes are normalized.
func New(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		codes := make([]string, len(r.Codes))
		for j, code := range r.Codes {
			codes[j] = parser.Normalize(code)
		}
		c.rules[i] = Rule{Match: r.Match, Codes: codes, Category: r.Category}
	}
	return c
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules)
}

// Classify returns the category of a cell. It is total: blank text is Empty
// and text no rule matches is Unknown.
func (c *Classifier) Classify(text string) Category {
	cell := parser.Normalize(text)
	if cell == "" {
		return Empty
	}
	for _, r := range c.rules {
		if r.matches(cell) {
			return r.Category
		}
	}
	return Unknown
}

// Classify uses the default rule table.
func Classify(text string) Category {
	return defaultClassifier.Classify(text)
}

var defaultClassifier = Default()
