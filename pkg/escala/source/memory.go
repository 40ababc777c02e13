package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// Memory is an in-process workbook.
type Memory struct {
	mu     sync.RWMutex
	order  []string
	sheets map[string][][]string
	// reads counts Rows calls.
	reads int
}

// NewMemory returns an empty workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

// Put replaces a whole sheet, appending it to the sheet order if new.
func (m *Memory) Put(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheet]; !ok {
		m.order = append(m.order, sheet)
	}
	m.sheets[sheet] = cloneRows(rows)
}

// Reads returns how many times Rows was called.
func (m *Memory) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}

func (m *Memory) Sheets(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *Memory) Rows(ctx context.Context, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	return cloneRows(rows), nil
}

// WriteRows overwrites the block at anchor like the xlsx writer: stale rows
// below it are blanked in the block's columns and cells right of the block
// are kept. Trailing blank cells and rows are trimmed as excelize does.
func (m *Memory) WriteRows(ctx context.Context, sheet, anchor string, records [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	target, err := parser.RangeAt(anchor, len(records), 1)
	if err != nil {
		return err
	}

	out := cloneRows(rows)
	left := target.C1 - 1
	for i, rec := range parser.PadBlock(records, target.R1, len(rows)) {
		r := target.R1 - 1 + i
		for len(out) <= r {
			out = append(out, nil)
		}
		row := out[r]
		for len(row) < left+len(rec) {
			row = append(row, "")
		}
		copy(row[left:], rec)
		out[r] = trimBlank(row)
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	m.sheets[sheet] = out
	return nil
}

func trimBlank(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
