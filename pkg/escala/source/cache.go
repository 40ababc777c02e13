package source

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	rows      [][]string
	fetchedAt time.Time
}

// Cached wraps a Source and keeps each sheet's rows for TTL. Readers share
// the cached rows, so they must treat them as read-only. An expired or
// invalidated entry is fetched again by the next reader, synchronously.
type Cached struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sheets   []string
	sheetsAt time.Time
	entries  map[string]entry
}

// NewCached returns a caching wrapper around src.
func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithClock replaces the clock used for expiry.
func (c *Cached) WithClock(now func() time.Time) *Cached {
	c.now = now
	return c
}

func (c *Cached) fresh(fetchedAt time.Time) bool {
	return !fetchedAt.IsZero() && c.now().Sub(fetchedAt) < c.ttl
}

// Sheets returns the cached sheet list, refreshing it when expired.
func (c *Cached) Sheets(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.sheets != nil && c.fresh(c.sheetsAt) {
		names := c.sheets
		c.mu.RUnlock()
		return names, nil
	}
	c.mu.RUnlock()

	names, err := c.src.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.sheets, c.sheetsAt = names, c.now()
	c.mu.Unlock()
	return names, nil
}

// Rows returns the cached rows of sheet, refreshing them when expired.
func (c *Cached) Rows(ctx context.Context, sheet string) ([][]string, error) {
	c.mu.RLock()
	e, ok := c.entries[sheet]
	c.mu.RUnlock()
	if ok && c.fresh(e.fetchedAt) {
		return e.rows, nil
	}

	rows, err := c.src.Rows(ctx, sheet)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[sheet] = entry{rows: rows, fetchedAt: c.now()}
	c.mu.Unlock()
	return rows, nil
}

// WriteRows writes through to the wrapped source and drops the sheet's entry.
func (c *Cached) WriteRows(ctx context.Context, sheet, anchor string, records [][]string) error {
	err := c.src.WriteRows(ctx, sheet, anchor, records)
	c.InvalidateSheet(sheet)
	return err
}

// Invalidate drops every cached value, including what the wrapped source
// keeps of its own.
func (c *Cached) Invalidate() {
	if inv, ok := c.src.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sheets = nil
	c.sheetsAt = time.Time{}
	c.entries = make(map[string]entry)
}

// InvalidateSheet drops the cached rows of one sheet.
func (c *Cached) InvalidateSheet(sheet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sheet)
}
