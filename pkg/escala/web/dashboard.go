package web

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/wfm-tools/escala-go/pkg/escala"
	"github.com/wfm-tools/escala-go/pkg/escala/classify"
	"github.com/wfm-tools/escala-go/pkg/escala/kpi"
	"github.com/wfm-tools/escala-go/pkg/escala/models"
)

type cellView struct {
	Text  string
	Class string
}

type rowView struct {
	Line    int
	Divider bool
	Label   string
	Cells   []cellView
}

type hourBar struct {
	kpi.HourCount
	ChatPct  int
	BreakPct int
}

type dashboardView struct {
	page
	Catalog   models.Catalog
	Sheet     string
	Kind      models.SheetKind
	People    models.People
	Selection kpi.Selection
	Mode      kpi.Mode
	Query     string
	EditURL   string

	Dates      []string
	Date       string
	Monthly    *kpi.MonthlyCounts
	Daily      *kpi.DailyCounts
	Bottleneck *kpi.Bottleneck
	Hours      []hourBar

	Columns []models.Column
	Rows    []rowView
	Shown   int
	Total   int
}

// selectionFromQuery reads the sidebar filters: repeated lider and ilha
// values, a name search and a view mode.
func selectionFromQuery(q url.Values) (kpi.Selection, kpi.Mode) {
	return kpi.Selection{
		Leaders: q["lider"],
		Teams:   q["ilha"],
		Search:  q.Get("q"),
	}, kpi.ParseMode(q.Get("mode"))
}

// defaultSheet picks the monthly sheet, then the first daily sheet, then any
// other sheet.
func defaultSheet(cat models.Catalog) string {
	switch {
	case cat.Monthly != "":
		return cat.Monthly
	case len(cat.Daily) > 0:
		return cat.Daily[0]
	case len(cat.Other) > 0:
		return cat.Other[0]
	}
	return ""
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	v := dashboardView{page: s.page(r, "Painel")}
	v.Selection, v.Mode = selectionFromQuery(q)
	v.Query = r.URL.RawQuery

	cat, err := s.loader.Catalog(ctx)
	if err != nil {
		s.logger.Error("catalog_failed", "error", err)
		v.Error = "Não foi possível ler a planilha. Tente atualizar os dados."
		s.render(w, r, http.StatusOK, "dashboard.html", v)
		return
	}
	v.Catalog = cat
	v.Sheet = q.Get("sheet")
	if v.Sheet == "" || !cat.Contains(v.Sheet) {
		v.Sheet = defaultSheet(cat)
	}
	v.Kind = cat.Kind(v.Sheet)
	if v.Sheet != "" {
		eq := r.URL.Query()
		eq.Set("sheet", v.Sheet)
		v.EditURL = "/edit?" + eq.Encode()
	}

	table, err := s.loader.LoadTable(ctx, v.Sheet)
	if err != nil {
		s.logger.Error("sheet_load_failed", "sheet", v.Sheet, "error", err)
		v.Error = loadErrorMessage(err)
		s.render(w, r, http.StatusOK, "dashboard.html", v)
		return
	}

	people, err := s.loader.LoadPeople(ctx, table)
	if err != nil {
		s.logger.Warn("people_load_failed", "error", err)
	}
	v.People = people

	cfg := s.loader.Options().KPI
	selected := kpi.Select(table, v.Selection)
	s.summarize(&v, selected, q.Get("date"), cfg)

	shown := selected
	if v.Kind == models.SheetDaily {
		shown = kpi.FilterAndSort(selected, v.Mode, cfg)
	}
	v.Columns = shown.Columns
	v.Rows = rowViews(shown, cfg)
	v.Total = len(table.People())
	v.Shown = len(shown.People())

	s.render(w, r, http.StatusOK, "dashboard.html", v)
}

// summarize fills the KPI blocks for the kind of sheet shown. Figures are
// computed over the sidebar selection.
func (s *Server) summarize(v *dashboardView, table *models.Table, date string, cfg kpi.Config) {
	switch v.Kind {
	case models.SheetMonthly:
		v.Dates = kpi.DateColumns(table)
		v.Date = date
		if !slices.Contains(v.Dates, v.Date) {
			v.Date = s.defaultDate(v.Dates)
		}
		if v.Date != "" {
			m := kpi.Monthly(table, v.Date, cfg)
			v.Monthly = &m
		}
	case models.SheetDaily:
		d := kpi.Daily(table, cfg)
		v.Daily = &d
		v.Bottleneck = kpi.HourlyBottleneck(table, cfg)
		v.Hours = hourBars(kpi.Hourly(table, cfg))
	}
}

// defaultDate prefers today's column and falls back to the first one.
func (s *Server) defaultDate(dates []string) string {
	today := s.now().Format("02/01")
	if slices.Contains(dates, today) {
		return today
	}
	if len(dates) > 0 {
		return dates[0]
	}
	return ""
}

func hourBars(hours []kpi.HourCount) []hourBar {
	peak := 0
	for _, h := range hours {
		peak = max(peak, h.Chat, h.Break)
	}
	bars := make([]hourBar, len(hours))
	for i, h := range hours {
		bars[i] = hourBar{HourCount: h}
		if peak > 0 {
			bars[i].ChatPct = h.Chat * 100 / peak
			bars[i].BreakPct = h.Break * 100 / peak
		}
	}
	return bars
}

// rowViews colors the date and time-slot cells by category. Divider rows
// render as a single label.
func rowViews(table *models.Table, cfg kpi.Config) []rowView {
	cls := cfg.Classifier
	if cls == nil {
		cls = classify.Default()
	}
	name := table.ColumnIndex(models.ColName)
	out := make([]rowView, 0, len(table.Rows))
	for _, row := range table.Rows {
		rv := rowView{Line: row.Line, Divider: row.Divider}
		if row.Divider {
			if name >= 0 {
				rv.Label = row.Cells[name]
			}
			out = append(out, rv)
			continue
		}
		rv.Cells = make([]cellView, len(row.Cells))
		for i, text := range row.Cells {
			rv.Cells[i] = cellView{Text: text}
			if i < len(table.Columns) && table.Columns[i].Kind != models.KindField {
				rv.Cells[i].Class = classify.Class(cls.Classify(text))
			}
		}
		out = append(out, rv)
	}
	return out
}

func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, escala.ErrHeaderNotFound):
		return "Cabeçalho não encontrado nesta aba (procure a linha com NOME)."
	case errors.Is(err, escala.ErrSheetNotFound):
		return "Aba não encontrada na planilha."
	case errors.Is(err, escala.ErrColumnMissing):
		return "A aba não tem a coluna NOME."
	case errors.Is(err, escala.ErrFilteredSave):
		return "Não é possível salvar uma visão filtrada. Limpe os filtros e edite a tabela completa."
	default:
		return "Não foi possível ler a planilha. Tente atualizar os dados."
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.loader.Refresh()
	if u, ok := currentUser(r); ok {
		s.logger.Info("cache_refreshed", "identity", u.Identity)
	}
	http.Redirect(w, r, backTo(r.PostFormValue("back")), http.StatusSeeOther)
}

// backTo returns the dashboard URL with a previous query string.
func backTo(rawQuery string) string {
	if rawQuery == "" {
		return "/"
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "/"
	}
	return "/?" + q.Encode()
}
