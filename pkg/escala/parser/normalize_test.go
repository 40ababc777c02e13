package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Nome ", "NOME"},
		{"ADMISSÃO", "ADMISSAO"},
		{"Líder", "LIDER"},
		{"Horário de entrada", "HORARIO DE ENTRADA"},
		{"Emergência", "EMERGENCIA"},
		{"09:00", "09:00"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}
