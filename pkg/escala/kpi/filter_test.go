package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfm-tools/escala-go/pkg/escala/models"
)

func names(t *models.Table) []string {
	var out []string
	for _, r := range t.Rows {
		out = append(out, t.Value(r, models.ColName))
	}
	return out
}

func shiftTable() *models.Table {
	return newTable([]string{"NOME", "ILHA", "LIDER", "ENTRADA", "09:00", "10:00"},
		[]string{"Ana", "Suporte", "Carla", "10:00", "CHAT", "P"},
		[]string{"Bia", "Backoffice", "Carla", "08:00", "F", "F"},
		[]string{"Caio", "Suporte", "Dani", "", "CHAT", "CHAT"},
		[]string{"Duda", "Emergência", "Dani", "07:30", "P", "CHAT"},
		[]string{"Enzo", "Suporte", "Dani", "xx", "F", ""},
		[]string{"Fabi", "Suporte", "Dani", "06:00", "F", "TREINO"},
	)
}

func TestFilterAndSortChatOnly(t *testing.T) {
	got := FilterAndSort(shiftTable(), ModeChatOnly, DefaultConfig())
	assert.Equal(t, []string{"Duda", "Ana", "Caio"}, names(got))
	assert.True(t, got.Filtered)
}

func TestFilterAndSortOffOnly(t *testing.T) {
	got := FilterAndSort(shiftTable(), ModeOffOnly, DefaultConfig())
	assert.Equal(t, []string{"Bia", "Enzo"}, names(got))
}

func TestFilterAndSortAll(t *testing.T) {
	table := shiftTable()
	assert.Same(t, table, FilterAndSort(table, ModeAll, DefaultConfig()))
}

func TestFilterAndSortUnparseableStartSortsLast(t *testing.T) {
	table := newTable([]string{"NOME", "ENTRADA", "09:00"},
		[]string{"Sem horario", "", "CHAT"},
		[]string{"Lixo", "amanhã", "CHAT"},
		[]string{"Tarde", "14:00", "CHAT"},
		[]string{"Cedo", "08:00:00", "CHAT"},
	)
	got := FilterAndSort(table, ModeChatOnly, DefaultConfig())
	assert.Equal(t, []string{"Cedo", "Tarde", "Sem horario", "Lixo"}, names(got))
}

func TestParseClock(t *testing.T) {
	_, ok := ParseClock("09:15")
	assert.True(t, ok)
	_, ok = ParseClock(" 18:00 ")
	assert.True(t, ok)
	for _, bad := range []string{"", "9h", "25:00", "abc"} {
		assert.NotPanics(t, func() {
			_, ok := ParseClock(bad)
			assert.False(t, ok, bad)
		})
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeChatOnly, ParseMode("chat"))
	assert.Equal(t, ModeOffOnly, ParseMode(" OFF "))
	assert.Equal(t, ModeAll, ParseMode("whatever"))
}

func TestSelect(t *testing.T) {
	table := shiftTable()

	assert.Same(t, table, Select(table, Selection{}))

	got := Select(table, Selection{Leaders: []string{"dani"}})
	assert.Equal(t, []string{"Caio", "Duda", "Enzo", "Fabi"}, names(got))
	assert.True(t, got.Filtered)
	assert.Equal(t, 6, got.SourceRows)

	got = Select(table, Selection{Teams: []string{"Emergencia"}})
	assert.Equal(t, []string{"Duda"}, names(got))

	got = Select(table, Selection{Leaders: []string{"Carla"}, Search: "an"})
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"Ana"}, names(got))
}
