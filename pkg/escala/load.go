package escala

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/wfm-tools/escala-go/pkg/escala/classify"
	"github.com/wfm-tools/escala-go/pkg/escala/models"
	"github.com/wfm-tools/escala-go/pkg/escala/parser"
	"github.com/wfm-tools/escala-go/pkg/escala/source"
)

// invalidator is implemented by caching sources.
type invalidator interface {
	Invalidate()
	InvalidateSheet(sheet string)
}

// Loader reads schedule tables from a source.
type Loader struct {
	src      source.Source
	opts     Options
	dividers classify.Dividers
}

// NewLoader returns a loader over src.
func NewLoader(src source.Source, opts Options) *Loader {
	return &Loader{
		src:      src,
		opts:     opts,
		dividers: classify.NewDividers(opts.DividerLabels),
	}
}

// Options returns the loader options.
func (l *Loader) Options() Options {
	return l.opts
}

// Refresh drops cached values so the next read goes to the spreadsheet.
func (l *Loader) Refresh() {
	if inv, ok := l.src.(invalidator); ok {
		inv.Invalidate()
	}
}

// Catalog lists the sheets of the workbook by kind.
func (l *Loader) Catalog(ctx context.Context) (models.Catalog, error) {
	names, err := l.src.Sheets(ctx)
	if err != nil {
		return models.Catalog{}, NewLoadError("", "source", fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}
	return BuildCatalog(names, l.opts), nil
}

// BuildCatalog sorts sheet names into monthly, daily, people and other.
func BuildCatalog(names []string, opts Options) models.Catalog {
	var cat models.Catalog
	prefix := parser.Normalize(opts.DailyPrefix)
	people := parser.Normalize(opts.PeopleSheet)
	monthly := parser.Normalize(opts.MonthlySheet)

	for _, name := range names {
		n := parser.Normalize(name)
		switch {
		case prefix != "" && strings.HasPrefix(n, prefix):
			cat.Daily = append(cat.Daily, name)
		case people != "" && n == people:
			cat.People = name
		case monthly != "" && n == monthly:
			cat.Monthly = name
		default:
			cat.Other = append(cat.Other, name)
		}
	}
	if cat.Monthly == "" && monthly == "" && len(cat.Other) > 0 {
		cat.Monthly, cat.Other = cat.Other[0], cat.Other[1:]
	}
	return cat
}

// LoadTable reads a sheet and reshapes it into a table. Any failure is
// returned as a *LoadError.
func (l *Loader) LoadTable(ctx context.Context, sheet string) (*models.Table, error) {
	cat, err := l.Catalog(ctx)
	if err != nil {
		return nil, NewLoadError(sheet, "source", errors.Unwrap(err))
	}
	kind := cat.Kind(sheet)
	if kind == models.SheetOther && !cat.Contains(sheet) {
		return nil, NewLoadError(sheet, "source", ErrSheetNotFound)
	}

	rows, err := l.src.Rows(ctx, sheet)
	if err != nil {
		if errors.Is(err, source.ErrNoSheet) {
			return nil, NewLoadError(sheet, "source", ErrSheetNotFound)
		}
		return nil, NewLoadError(sheet, "source", fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}

	params := parser.TableParams{
		Header:      l.opts.headerParams(kind == models.SheetDaily),
		RequireTeam: l.opts.RequireTeam,
		IsDivider:   l.dividers.IsDivider,
	}
	if kind != models.SheetDaily {
		params.MaxColumns = l.opts.MonthlyMaxColumns
	}

	table, header := parser.BuildTable(sheet, kind, rows, params)
	if !header.Found() {
		return nil, NewLoadError(sheet, "header",
			fmt.Errorf("%w in the first %d rows", ErrHeaderNotFound, params.Header.Window))
	}
	if !table.HasColumn(models.ColName) {
		return nil, NewLoadError(sheet, "rows", fmt.Errorf("%w: %s", ErrColumnMissing, models.ColName))
	}

	slog.Debug("sheet_loaded", "sheet", sheet, "kind", kind, "header_row", header.Index,
		"columns", len(table.Columns), "rows", len(table.Rows))
	return table, nil
}

// Anchor returns the cell where a table's header is written back.
func Anchor(table *models.Table) string {
	return "A" + strconv.Itoa(table.HeaderRow+1)
}

// SaveTable overwrites the sheet with edited, header included, in one bulk
// write. The current sheet is read again first and the save is refused with
// ErrFilteredSave when edited is a filtered view or its shape differs, so a
// subset never silently shrinks the sheet. Each row goes back to its own
// line, and lines the loader skipped (blank name or team) are written back
// as they are. Concurrent saves are not coordinated: the last writer wins.
func (l *Loader) SaveTable(ctx context.Context, edited *models.Table) error {
	if edited.Filtered {
		return NewLoadError(edited.Sheet, "save", ErrFilteredSave)
	}
	if inv, ok := l.src.(invalidator); ok {
		inv.InvalidateSheet(edited.Sheet)
	}
	current, err := l.LoadTable(ctx, edited.Sheet)
	if err != nil {
		return err
	}
	if len(edited.Rows) != len(current.Rows) || len(edited.Columns) != len(current.Columns) {
		return NewLoadError(edited.Sheet, "save", fmt.Errorf("%w: %d rows x %d columns submitted, sheet has %d x %d",
			ErrFilteredSave, len(edited.Rows), len(edited.Columns), len(current.Rows), len(current.Columns)))
	}
	raw, err := l.src.Rows(ctx, edited.Sheet)
	if err != nil {
		return NewLoadError(edited.Sheet, "save", fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}

	if err := l.src.WriteRows(ctx, edited.Sheet, Anchor(current), mergeRecords(current, edited, raw)); err != nil {
		return NewLoadError(edited.Sheet, "save", fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}
	slog.Info("sheet_saved", "sheet", edited.Sheet, "rows", len(edited.Rows))
	return nil
}

// mergeRecords lays edited out over the raw lines below the header. The
// i-th edited row replaces the line of the i-th current row; other lines
// keep their raw cells, cut to the table width.
func mergeRecords(current, edited *models.Table, raw [][]string) [][]string {
	width := len(current.Columns)
	byLine := make(map[int][]string, len(current.Rows))
	for i, row := range current.Rows {
		byLine[row.Line] = edited.Rows[i].Cells
	}

	records := edited.Records()[:1]
	for line := current.HeaderRow + 2; line <= len(raw); line++ {
		cells, ok := byLine[line]
		if !ok {
			cells = raw[line-1][:min(width, len(raw[line-1]))]
		}
		records = append(records, append([]string(nil), cells...))
	}
	return records
}

// LoadPeople reads the leader and team values of the people sheet. When the
// workbook has no people sheet, the values are collected from fallback.
func (l *Loader) LoadPeople(ctx context.Context, fallback *models.Table) (models.People, error) {
	cat, err := l.Catalog(ctx)
	if err != nil {
		return PeopleFromTable(fallback), err
	}
	if cat.People == "" {
		return PeopleFromTable(fallback), nil
	}
	rows, err := l.src.Rows(ctx, cat.People)
	if err != nil {
		return PeopleFromTable(fallback), NewLoadError(cat.People, "source", fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}
	if len(rows) == 0 {
		return PeopleFromTable(fallback), nil
	}

	names := parser.NameColumns(normalizeAll(rows[0]))
	leaderIdx, teamIdx := indexOf(names, models.ColLeader), indexOf(names, models.ColTeam)
	var leaders, teams []string
	for _, row := range rows[1:] {
		if leaderIdx >= 0 && leaderIdx < len(row) {
			leaders = append(leaders, row[leaderIdx])
		}
		if teamIdx >= 0 && teamIdx < len(row) {
			teams = append(teams, row[teamIdx])
		}
	}
	return models.People{Leaders: distinct(leaders), Teams: distinct(teams)}, nil
}

// PeopleFromTable collects the leader and team values found in table.
func PeopleFromTable(table *models.Table) models.People {
	if table == nil {
		return models.People{}
	}
	var leaders, teams []string
	for _, row := range table.People() {
		leaders = append(leaders, table.Value(row, models.ColLeader))
		teams = append(teams, table.Value(row, models.ColTeam))
	}
	return models.People{Leaders: distinct(leaders), Teams: distinct(teams)}
}

func normalizeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = parser.Normalize(c)
	}
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// distinct returns the trimmed non-blank values, deduplicated by normalized
// form and sorted.
func distinct(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		n := parser.Normalize(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
