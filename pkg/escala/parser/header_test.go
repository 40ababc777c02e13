package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyRows() [][]string {
	return [][]string{
		{"ESCALA DIÁRIA", "", ""},
		{"Nome do arquivo: dim", "", ""},
		{"Nome", "Líder", "Ilha", "Horário", "09:00", "10:00"},
		{"Ana", "Carla", "Suporte", "09-18", "CHAT", "P"},
	}
}

func TestDetectHeader(t *testing.T) {
	res := DetectHeader(dailyRows(), DefaultHeaderParams())
	require.True(t, res.Found())
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, []string{"NOME", "LIDER", "ILHA", "HORARIO", "09:00", "10:00"}, res.Cells)
}

func TestDetectHeaderIsDeterministic(t *testing.T) {
	rows := dailyRows()
	first := DetectHeader(rows, DefaultHeaderParams())
	for i := 0; i < 5; i++ {
		again := DetectHeader(rows, DefaultHeaderParams())
		assert.Equal(t, first, again)
	}
}

func TestDetectHeaderLeadingBlankRows(t *testing.T) {
	rows := dailyRows()
	base := DetectHeader(rows, DefaultHeaderParams())

	padded := append([][]string{{}, {"", " "}, {}}, rows...)
	shifted := DetectHeader(padded, DefaultHeaderParams())

	require.True(t, shifted.Found())
	assert.Equal(t, base.Index+3, shifted.Index)
	assert.Equal(t, NameColumns(base.Cells), NameColumns(shifted.Cells))
}

func TestDetectHeaderCorroboration(t *testing.T) {
	rows := [][]string{
		{"NOME", "VALOR"},
		{"NOMES", "ILHA", "LIDER"},
	}

	strict := DetectHeader(rows, DefaultHeaderParams())
	require.True(t, strict.Found())
	assert.Equal(t, 1, strict.Index)

	loose := DefaultHeaderParams()
	loose.RequireCorroboration = false
	res := DetectHeader(rows, loose)
	require.True(t, res.Found())
	assert.Equal(t, 0, res.Index)
}

func TestDetectHeaderNotFound(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		params HeaderParams
	}{
		{"empty sheet", nil, DefaultHeaderParams()},
		{"no name column", [][]string{{"ILHA", "LIDER"}}, DefaultHeaderParams()},
		{
			"header outside window",
			[][]string{{}, {}, {}, {}, {}, {"NOME", "LIDER"}},
			MonthlyHeaderParams(),
		},
		{"name is a substring only", [][]string{{"NOME COMPLETO", "LIDER"}}, DefaultHeaderParams()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DetectHeader(tt.rows, tt.params)
			assert.False(t, res.Found())
			assert.Equal(t, HeaderNotFound, res.Status)
			assert.Equal(t, -1, res.Index)
		})
	}
}
