// Package classify maps schedule cell codes onto semantic categories.
package classify

// Category is the meaning of a schedule cell.
type Category int

const (
	Empty Category = iota
	WorkingChat
	WorkingOther
	// Scheduled is the monthly "T": on shift, activity not specified.
	Scheduled
	Break
	DayOff
	Leave
	// DividerRow applies to a whole row, never to a cell.
	DividerRow
	// Unknown is any non-blank text no rule matches.
	Unknown
)

var categoryNames = map[Category]string{
	Empty:        "empty",
	WorkingChat:  "working_chat",
	WorkingOther: "working_other",
	Scheduled:    "scheduled",
	Break:        "break",
	DayOff:       "day_off",
	Leave:        "leave",
	DividerRow:   "divider",
	Unknown:      "unknown",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the category by name in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Working reports whether the person is on shift.
func (c Category) Working() bool {
	return c == WorkingChat || c == WorkingOther || c == Scheduled
}

// Absent reports whether the person is off for the day.
func (c Category) Absent() bool {
	return c == DayOff || c == Leave
}

// Class returns the CSS class used to color a cell of this category.
func Class(c Category) string {
	switch c {
	case WorkingChat:
		return "cell-chat"
	case WorkingOther:
		return "cell-other"
	case Scheduled:
		return "cell-work"
	case Break:
		return "cell-break"
	case DayOff:
		return "cell-off"
	case Leave:
		return "cell-leave"
	case DividerRow:
		return "row-divider"
	case Unknown:
		return "cell-unknown"
	default:
		return ""
	}
}
