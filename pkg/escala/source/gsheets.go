package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/wfm-tools/escala-go/pkg/escala/parser"
)

// GoogleSheets reads and writes a spreadsheet through the Sheets API v4.
type GoogleSheets struct {
	SpreadsheetID string

	svc *sheets.Service
}

// NewGoogleSheets connects with a service account credentials file. Extra
// client options are applied after it.
func NewGoogleSheets(ctx context.Context, spreadsheetID, credentialsFile string, extra ...option.ClientOption) (*GoogleSheets, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, extra...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &GoogleSheets{SpreadsheetID: spreadsheetID, svc: svc}, nil
}

// SpreadsheetID extracts the id from a spreadsheet URL; plain ids are
// returned unchanged.
func SpreadsheetID(urlOrID string) string {
	const marker = "/spreadsheets/d/"
	i := strings.Index(urlOrID, marker)
	if i < 0 {
		return strings.TrimSpace(urlOrID)
	}
	id := urlOrID[i+len(marker):]
	if j := strings.IndexAny(id, "/?#"); j >= 0 {
		id = id[:j]
	}
	return id
}

// Sheets lists the sheet titles.
func (g *GoogleSheets) Sheets(ctx context.Context) ([]string, error) {
	ss, err := g.svc.Spreadsheets.Get(g.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			names = append(names, s.Properties.Title)
		}
	}
	return names, nil
}

// Rows returns the formatted values of the whole sheet.
func (g *GoogleSheets) Rows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.SpreadsheetID, quoteSheet(sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// WriteRows writes records at anchor in a single update call. The block is
// padded with blank rows down to the sheet's current last row and blanks out
// to its widest record, so stale rows below a shorter table are emptied
// without a separate clear that could leave the sheet blank on failure.
func (g *GoogleSheets) WriteRows(ctx context.Context, sheet, anchor string, records [][]string) error {
	target, err := parser.RangeAt(anchor, len(records), 1)
	if err != nil {
		return err
	}
	old, err := g.Rows(ctx, sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", sheet, err)
	}

	block := parser.PadBlock(records, target.R1, len(old))
	if len(block) == 0 {
		return nil
	}
	values := make([][]interface{}, len(block))
	for i, rec := range block {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		values[i] = row
	}
	target.R2 = target.R1 + len(block) - 1
	target.C2 = target.C1 + max(len(block[0]), 1) - 1

	resp, err := g.svc.Spreadsheets.Values.Update(g.SpreadsheetID, parser.Reference(sheet, target), &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", sheet, err)
	}
	logUpdate(sheet, resp.UpdatedRange)
	return nil
}

// logUpdate records the block the API reports as written.
func logUpdate(sheet, updatedRange string) {
	_, rangeStr := parser.SplitReference(updatedRange)
	r, err := parser.ParseRange(rangeStr)
	if err != nil {
		slog.Debug("sheet_updated", "sheet", sheet, "range", updatedRange)
		return
	}
	slog.Debug("sheet_updated", "sheet", sheet, "range", r.String(), "rows", r.R2-r.R1+1, "columns", r.C2-r.C1+1)
}

func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
