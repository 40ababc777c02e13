package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wfm-tools/escala-go/pkg/escala"
	"github.com/wfm-tools/escala-go/pkg/escala/kpi"
	"github.com/wfm-tools/escala-go/pkg/escala/models"
)

type editView struct {
	page
	Sheet    string
	Table    *models.Table
	Filtered bool
	Saved    bool
	// Back is the dashboard query string the editor came from.
	Back    string
	BackURL string
}

// cellField names the form input of a cell.
func cellField(row, col int) string {
	return "c_" + strconv.Itoa(row) + "_" + strconv.Itoa(col)
}

// handleEditPage shows the grid as a form. The sidebar selection carries over
// so a filtered view can be inspected, but such a view cannot be saved.
func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := editView{page: s.page(r, "Editar"), Sheet: q.Get("sheet"), Back: r.URL.RawQuery}
	v.BackURL = backTo(v.Back)

	table, err := s.loader.LoadTable(r.Context(), v.Sheet)
	if err != nil {
		s.logger.Error("sheet_load_failed", "sheet", v.Sheet, "error", err)
		v.Error = loadErrorMessage(err)
		s.render(w, r, http.StatusOK, "edit.html", v)
		return
	}
	sel, mode := selectionFromQuery(q)
	shown := kpi.FilterAndSort(kpi.Select(table, sel), mode, s.loader.Options().KPI)
	v.Table = shown
	v.Filtered = shown.Filtered
	if v.Filtered {
		v.Notice = loadErrorMessage(escala.ErrFilteredSave)
	}
	v.Saved = q.Get("saved") == "1"
	s.render(w, r, http.StatusOK, "edit.html", v)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sheet := r.PostFormValue("sheet")
	v := editView{page: s.page(r, "Editar"), Sheet: sheet, Back: r.PostFormValue("back")}
	v.BackURL = backTo(v.Back)

	current, err := s.loader.LoadTable(r.Context(), sheet)
	if err != nil {
		s.logger.Error("sheet_load_failed", "sheet", sheet, "error", err)
		v.Error = loadErrorMessage(err)
		s.render(w, r, http.StatusOK, "edit.html", v)
		return
	}
	edited, err := tableFromForm(current, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.loader.SaveTable(r.Context(), edited); err != nil {
		u, _ := currentUser(r)
		if errors.Is(err, escala.ErrFilteredSave) {
			s.logger.Warn("save_rejected", "sheet", sheet, "identity", u.Identity, "error", err)
			v.Table, v.Filtered = edited, true
			v.Error = loadErrorMessage(err)
			s.render(w, r, http.StatusConflict, "edit.html", v)
			return
		}
		s.logger.Error("save_failed", "sheet", sheet, "identity", u.Identity, "error", err)
		v.Table = edited
		v.Error = "Não foi possível salvar na planilha. Suas alterações não foram gravadas."
		s.render(w, r, http.StatusBadGateway, "edit.html", v)
		return
	}
	http.Redirect(w, r, "/edit?"+url.Values{"sheet": {sheet}, "saved": {"1"}}.Encode(), http.StatusSeeOther)
}

// tableFromForm rebuilds the submitted grid over the columns of current.
func tableFromForm(current *models.Table, r *http.Request) (*models.Table, error) {
	n, err := strconv.Atoi(r.PostFormValue("rows"))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid row count %q", r.PostFormValue("rows"))
	}
	rows := make([]models.Row, n)
	for i := range rows {
		cells := make([]string, len(current.Columns))
		for c := range cells {
			cells[c] = r.PostFormValue(cellField(i, c))
		}
		rows[i] = models.Row{Cells: cells}
		if i < len(current.Rows) {
			rows[i].Line = current.Rows[i].Line
			rows[i].Divider = current.Rows[i].Divider
		}
	}
	edited := *current
	edited.Rows = rows
	edited.Filtered = r.PostFormValue("filtered") == "1"
	return &edited, nil
}
