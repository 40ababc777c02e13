package config

import (
	"context"
	"fmt"

	"github.com/wfm-tools/escala-go/pkg/escala/source"
)

// OpenSource builds the configured source wrapped in a TTL cache.
func (c Config) OpenSource(ctx context.Context) (*source.Cached, error) {
	var src source.Source
	switch c.Source.Kind {
	case SourceXLSX:
		src = source.NewWorkbook(c.Source.Path)
	case SourceExport:
		id := source.SpreadsheetID(c.Source.Spreadsheet)
		src = source.NewExport(source.ExportURL(id), c.Source.Timeout)
	case SourceSheets:
		id := source.SpreadsheetID(c.Source.Spreadsheet)
		g, err := source.NewGoogleSheets(ctx, id, c.Source.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("open google sheets %s: %w", id, err)
		}
		src = g
	default:
		return nil, fmt.Errorf("invalid source kind: %q", c.Source.Kind)
	}
	return source.NewCached(src, c.Schedule.CacheTTL), nil
}
