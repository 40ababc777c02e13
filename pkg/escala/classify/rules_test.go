package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"", Empty},
		{"   ", Empty},
		{"\t\n", Empty},
		{"T", Scheduled},
		{" t ", Scheduled},
		{"F", DayOff},
		{"folga", DayOff},
		{"P", Break},
		{"Pausa", Break},
		{"AF", Leave},
		{"fr", Leave},
		{"Férias", Leave},
		{"TR", WorkingOther},
		{"CHAT", WorkingChat},
		{"chat/suporte", WorkingChat},
		{"E-MAIL", WorkingOther},
		{"Financeiro", WorkingOther},
		{"BACKOFFICE", WorkingOther},
		{"Reembolsos", WorkingOther},
		{"TREINO", WorkingOther},
		{"1:1", WorkingOther},
		{"CHAT + PAUSA", WorkingChat},
		{"PAUSA/EMAIL", Break},
		{"xyz", Unknown},
		{"FF", Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.input), "Classify(%q)", tt.input)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{"", " ", "ç", "💤", "chat chat CHAT", "F/P/T", "\x00", "1:1 CHAT", "A very long free text cell"}
	valid := map[Category]bool{}
	for c := range categoryNames {
		valid[c] = true
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := Classify(in)
			assert.True(t, valid[got], "Classify(%q) = %d", in, got)
		})
	}
}

func TestClassifierCustomRules(t *testing.T) {
	c := New([]Rule{
		{Match: Contains, Codes: []string{"suporte"}, Category: WorkingChat},
		{Match: Exact, Codes: []string{"f"}, Category: DayOff},
	})
	assert.Equal(t, WorkingChat, c.Classify("Suporte N1"))
	assert.Equal(t, DayOff, c.Classify("F"))
	assert.Equal(t, Unknown, c.Classify("CHAT"))
}

func TestDividers(t *testing.T) {
	d := NewDividers(DefaultDividerLabels)
	assert.True(t, d.IsDivider("STAFF"))
	assert.True(t, d.IsDivider(" pleno "))
	assert.True(t, d.IsDivider("e-mail"))
	assert.False(t, d.IsDivider("Ana"))
	assert.False(t, d.IsDivider("STAFF 2"))
}

func TestCategory(t *testing.T) {
	assert.True(t, WorkingChat.Working())
	assert.True(t, Scheduled.Working())
	assert.False(t, Break.Working())
	assert.True(t, Leave.Absent())
	assert.Equal(t, "cell-off", Class(DayOff))
	assert.Equal(t, "", Class(Empty))
	assert.Equal(t, "working_chat", WorkingChat.String())
}
