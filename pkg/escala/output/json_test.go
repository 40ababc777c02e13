package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfm-tools/escala-go/pkg/escala/classify"
	"github.com/wfm-tools/escala-go/pkg/escala/kpi"
)

func TestWriteJSON(t *testing.T) {
	counts := kpi.MonthlyCounts{
		Date:       "01/10",
		Found:      true,
		Total:      2,
		Present:    1,
		ByCategory: map[classify.Category]int{classify.Scheduled: 1, classify.Leave: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, counts, false))
	assert.Contains(t, buf.String(), `"by_category":{"leave":1,"scheduled":1}`)
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, counts, true))
	assert.Contains(t, buf.String(), "\n  \"date\": \"01/10\"")
}
