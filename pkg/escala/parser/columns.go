package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// nameAliases maps normalized header values onto canonical column names.
var nameAliases = map[string]string{
	"NOMES": "NOME",
}

// NameColumns turns normalized header cells into unique column identifiers.
// Empty cells are named after their spreadsheet column letter (COL_F) and
// repeated names get a numeric suffix on every occurrence after the first,
// so ["NOME","EMAIL","EMAIL"] becomes ["NOME","EMAIL","EMAIL_2"].
func NameColumns(cells []string) []string {
	names := make([]string, len(cells))
	taken := make(map[string]bool, len(cells))
	for i, c := range cells {
		if alias, ok := nameAliases[c]; ok {
			c = alias
		}
		if c == "" {
			letter, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				letter = strconv.Itoa(i + 1)
			}
			c = "COL_" + letter
		}
		name := c
		for n := 2; taken[name]; n++ {
			name = c + "_" + strconv.Itoa(n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
