// Package parser turns raw spreadsheet rows into schedule tables.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims s, folds it to upper case and strips accents, so that
// "Admissão " and "ADMISSAO" compare equal.
func Normalize(s string) string {
	return strings.ToUpper(Fold(strings.TrimSpace(s)))
}

// Fold removes combining marks from s.
func Fold(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
