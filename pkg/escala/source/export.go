package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportURL returns the xlsx export address of a Google Sheets spreadsheet.
func ExportURL(spreadsheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID + "/export?format=xlsx"
}

// DefaultExportReuse is how long one download answers Sheets and Rows.
const DefaultExportReuse = 10 * time.Second

// Export downloads a whole spreadsheet as .xlsx and reads it with excelize.
// It works for sheets shared by link and cannot write back. One download
// serves every sheet for Reuse, so a cache miss listing sheets and then
// reading one costs a single request.
type Export struct {
	URL    string
	Client *http.Client
	Reuse  time.Duration

	now  func() time.Time
	mu   sync.Mutex
	snap *snapshot
}

type snapshot struct {
	names     []string
	rows      map[string][][]string
	fetchedAt time.Time
}

// NewExport returns a source downloading from url.
func NewExport(url string, timeout time.Duration) *Export {
	return &Export{URL: url, Client: &http.Client{Timeout: timeout}, Reuse: DefaultExportReuse, now: time.Now}
}

// Sheets lists the sheets of the downloaded workbook.
func (e *Export) Sheets(ctx context.Context) ([]string, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), snap.names...), nil
}

// Rows returns the rows of one sheet of the downloaded workbook.
func (e *Export) Rows(ctx context.Context, sheet string) ([][]string, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	rows, ok := snap.rows[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	return cloneRows(rows), nil
}

// WriteRows always fails: the export endpoint is read-only.
func (e *Export) WriteRows(ctx context.Context, sheet, anchor string, records [][]string) error {
	return ErrReadOnly
}

// Invalidate drops the kept download.
func (e *Export) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = nil
}

// load returns the kept download while it is younger than Reuse, otherwise
// downloads and reads every sheet. Concurrent callers wait for one download.
func (e *Export) load(ctx context.Context) (*snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	if e.snap != nil && now().Sub(e.snap.fetchedAt) < e.Reuse {
		return e.snap, nil
	}

	f, err := e.fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	snap := &snapshot{names: f.GetSheetList(), rows: make(map[string][][]string), fetchedAt: now()}
	for _, name := range snap.names {
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		snap.rows[name] = rows
	}
	e.snap = snap
	return snap, nil
}

func (e *Export) fetch(ctx context.Context) (*excelize.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return nil, err
	}
	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if err := validateXLSX(body); err != nil {
		return nil, err
	}
	return excelize.OpenReader(bytes.NewReader(body))
}

func validateXLSX(body []byte) error {
	// A sheet that is not shared answers with the login page.
	head := strings.ToUpper(strings.TrimSpace(string(body[:min(len(body), 64)])))
	if strings.HasPrefix(head, "<!DOCTYPE") || strings.HasPrefix(head, "<HTML") {
		return fmt.Errorf("received HTML instead of a spreadsheet - check the sharing settings")
	}
	if !bytes.HasPrefix(body, []byte("PK")) {
		return fmt.Errorf("invalid xlsx payload (%d bytes)", len(body))
	}
	return nil
}
