package models

// SheetKind distinguishes the sheets of a schedule workbook.
type SheetKind string

const (
	// SheetMonthly is the overview sheet with one column per calendar day.
	SheetMonthly SheetKind = "monthly"
	// SheetDaily is a per-day detail sheet with one column per time slot.
	SheetDaily SheetKind = "daily"
	// SheetPeople is the auxiliary lookup sheet of leaders and teams.
	SheetPeople SheetKind = "people"
	// SheetOther is any other tab.
	SheetOther SheetKind = "other"
)

// Catalog lists the sheets of a workbook by kind.
type Catalog struct {
	// Monthly is the monthly overview sheet name ("" if none).
	Monthly string `json:"monthly"`
	// Daily holds the daily detail sheets in workbook order.
	Daily []string `json:"daily"`
	// People is the lookup sheet name ("" if none).
	People string `json:"people,omitempty"`
	// Other holds the remaining tabs.
	Other []string `json:"other,omitempty"`
}

// Kind returns the kind of the named sheet.
func (c Catalog) Kind(sheet string) SheetKind {
	switch {
	case sheet == "":
		return SheetOther
	case sheet == c.Monthly:
		return SheetMonthly
	case sheet == c.People:
		return SheetPeople
	}
	for _, d := range c.Daily {
		if d == sheet {
			return SheetDaily
		}
	}
	return SheetOther
}

// Contains reports whether the catalog lists the sheet.
func (c Catalog) Contains(sheet string) bool {
	return c.Kind(sheet) != SheetOther || containsString(c.Other, sheet)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// People holds the valid leader and team values used to populate filters.
type People struct {
	Leaders []string `json:"leaders"`
	Teams   []string `json:"teams"`
}
