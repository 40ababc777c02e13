package classify

import "github.com/wfm-tools/escala-go/pkg/escala/parser"

// DefaultDividerLabels are section labels that appear in the name column.
var DefaultDividerLabels = []string{"FINANCEIRO", "E-MAIL", "EMAIL", "PLENO", "STAFF", "N2"}

// Dividers recognizes section label rows.
type Dividers map[string]struct{}

// NewDividers builds a label set; labels are normalized.
func NewDividers(labels []string) Dividers {
	d := make(Dividers, len(labels))
	for _, l := range labels {
		d[parser.Normalize(l)] = struct{}{}
	}
	return d
}

// IsDivider reports whether name is exactly one of the section labels.
func (d Dividers) IsDivider(name string) bool {
	_, ok := d[parser.Normalize(name)]
	return ok
}
