package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfm-tools/escala-go/pkg/escala"
	"github.com/wfm-tools/escala-go/pkg/escala/session"
	"github.com/wfm-tools/escala-go/pkg/escala/source"
)

func testRows() [][]string {
	return [][]string{
		{"ESCALA OUTUBRO"},
		{"NOME", "ILHA", "LIDER", "ENTRADA", "01/10", "02/10"},
		{"Ana", "Suporte", "Carla", "09:00", "T", "F"},
		{"STAFF"},
		{"Bia", "Backoffice", "Dani", "08:00", "FR", "T"},
	}
}

func dailyRows() [][]string {
	return [][]string{
		{"DIM 01/10"},
		{"NOME", "ILHA", "LIDER", "HORÁRIO", "ENTRADA", "09:00", "10:00"},
		{"Ana", "Suporte", "Carla", "09-18", "10:00", "CHAT", "P"},
		{"Bia", "Suporte", "Dani", "08-17", "08:00", "CHAT", "CHAT"},
		{"Caio", "Suporte", "Dani", "", "", "F", "F"},
	}
}

type testEnv struct {
	srv *Server
	ts  *httptest.Server
	mem *source.Memory
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	mem := source.NewMemory()
	mem.Put("ESCALA", testRows())
	mem.Put("DIM 01/10", dailyRows())
	loader := escala.NewLoader(source.NewCached(mem, time.Minute), escala.DefaultOptions())
	creds := session.Credentials{
		"Ana@x.com": {Password: "segredo", Roles: []string{session.RoleEditor}},
		"bia@x.com": {Password: "senha", Roles: []string{session.RoleViewer}},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(loader, creds, cfg, logger)
	require.NoError(t, err)
	srv.now = func() time.Time { return time.Date(2025, 10, 2, 10, 0, 0, 0, time.UTC) }
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts, mem: mem}
}

// client returns an HTTP client with its own cookie jar that does not follow
// redirects.
func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) login(t *testing.T, c *http.Client, identity, password string) *http.Response {
	t.Helper()
	resp, err := c.PostForm(e.ts.URL+"/login", url.Values{"identity": {identity}, "password": {password}})
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestDashboardRequiresLogin(t *testing.T) {
	env := newTestEnv(t, Config{})
	resp, _ := get(t, env.client(t), env.ts.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	resp, err := c.PostForm(env.ts.URL+"/login", url.Values{"identity": {"ana@x.com"}, "password": {"errada"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "inválidos")
	assert.Empty(t, c.Jar.Cookies(mustURL(t, env.ts.URL)))
}

func TestMonthlyDashboard(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	resp := env.login(t, c, "ANA@x.com", "segredo")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := get(t, c, env.ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ana@x.com")
	assert.Contains(t, body, `<td class="cell-work">T</td>`)
	assert.Contains(t, body, `<td class="cell-leave">FR</td>`)
	assert.Contains(t, body, `class="row-divider"`)
	assert.Contains(t, body, "Editar aba")
	// Today is 02/10: Ana is off, Bia is on shift.
	assert.Contains(t, body, "Dia <b>02/10</b>")
	assert.Contains(t, body, "Escalados <b>1</b>")
	assert.Contains(t, body, "Folgas <b>1</b>")

	_, body = get(t, c, env.ts.URL+"/?date=01%2F10&ilha=Suporte")
	assert.Contains(t, body, "Na fila <b>1</b>")
	assert.Contains(t, body, "1 de 2 pessoas")
	assert.NotContains(t, body, "Bia")
}

func TestDailyDashboard(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")

	_, body := get(t, c, env.ts.URL+"/?sheet=DIM+01%2F10")
	assert.Contains(t, body, "No chat <b>2</b>")
	assert.Contains(t, body, "Folgas na fila <b>1</b>")
	assert.Contains(t, body, "Menor chat <b>10:00 (1)</b>")
	assert.Contains(t, body, "Mais pausas <b>10:00 (1)</b>")

	_, body = get(t, c, env.ts.URL+"/?sheet=DIM+01%2F10&mode=chat")
	assert.Contains(t, body, "2 de 3 pessoas")
	assert.Less(t, strings.Index(body, ">Bia<"), strings.Index(body, ">Ana<"), "sorted by ENTRADA")
	assert.NotContains(t, body, ">Caio<")
}

func TestDashboardSheetError(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.mem.Put("Rascunho", [][]string{{"sem cabeçalho"}})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")

	resp, body := get(t, c, env.ts.URL+"/?sheet=Rascunho")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cabeçalho não encontrado")
	assert.Contains(t, body, "Atualizar dados", "the page stays usable")
}

func TestSessionTakeover(t *testing.T) {
	env := newTestEnv(t, Config{})
	first, second := env.client(t), env.client(t)
	env.login(t, first, "ana@x.com", "segredo")
	resp, _ := get(t, first, env.ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env.login(t, second, "ana@x.com", "segredo")

	resp, _ = get(t, first, env.ts.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?reason=superseded", resp.Header.Get("Location"))
	assert.Empty(t, first.Jar.Cookies(mustURL(t, env.ts.URL)), "displaced cookie is cleared")

	_, body := get(t, first, env.ts.URL+"/login?reason=superseded")
	assert.Contains(t, body, "outro dispositivo")

	resp, _ = get(t, second, env.ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")

	resp, err := c.PostForm(env.ts.URL+"/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/login?reason=logout", resp.Header.Get("Location"))
	assert.Equal(t, 0, env.srv.registry.Len())

	resp, _ = get(t, c, env.ts.URL+"/")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSessionCookieMustBeIssued(t *testing.T) {
	env := newTestEnv(t, Config{})
	signed, err := env.srv.codec.Encode(session.NewToken("ana@x.com"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		value    string
		location string
	}{
		{"unsigned token", session.NewToken("ana@x.com").String(), "/login?reason=expired"},
		{"signed but never logged in", signed, "/login?reason=superseded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := env.client(t)
			c.Jar.SetCookies(mustURL(t, env.ts.URL), []*http.Cookie{{Name: sessionCookieName, Value: tt.value, Path: "/"}})

			resp, _ := get(t, c, env.ts.URL+"/edit?sheet=ESCALA")
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestSessionsEndOnRestart(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	env := newTestEnv(t, Config{SessionKey: key})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")
	cookies := c.Jar.Cookies(mustURL(t, env.ts.URL))
	require.Len(t, cookies, 1)

	restarted := newTestEnv(t, Config{SessionKey: key})
	c2 := restarted.client(t)
	c2.Jar.SetCookies(mustURL(t, restarted.ts.URL), []*http.Cookie{{Name: sessionCookieName, Value: cookies[0].Value, Path: "/"}})
	resp, _ := get(t, c2, restarted.ts.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 0, restarted.srv.registry.Len())
}

func TestEditRequiresEditor(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	env.login(t, c, "bia@x.com", "senha")

	resp, _ := get(t, c, env.ts.URL+"/edit?sheet=ESCALA")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, body := get(t, c, env.ts.URL+"/")
	assert.NotContains(t, body, "Editar aba")
}

func editForm(rows [][]string) url.Values {
	form := url.Values{"sheet": {"ESCALA"}, "rows": {strconv.Itoa(len(rows))}}
	for r, cells := range rows {
		for c, v := range cells {
			form.Set(cellField(r, c), v)
		}
	}
	return form
}

func TestEditSave(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")

	_, body := get(t, c, env.ts.URL+"/edit?sheet=ESCALA")
	assert.Contains(t, body, `name="c_0_4" value="T"`)

	form := editForm([][]string{
		{"Ana", "Suporte", "Carla", "09:00", "T", "T"},
		{"STAFF", "", "", "", "", ""},
		{"Bia", "Backoffice", "Dani", "08:00", "FR", "T"},
	})
	resp, err := c.PostForm(env.ts.URL+"/edit", form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/edit?saved=1&sheet=ESCALA", resp.Header.Get("Location"))

	rows, err := env.mem.Rows(t.Context(), "ESCALA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Suporte", "Carla", "09:00", "T", "T"}, rows[2])

	_, body = get(t, c, env.ts.URL+"/?date=02%2F10")
	assert.Contains(t, body, "Escalados <b>2</b>", "save invalidates the cache")
}

func TestEditRejectsFilteredSave(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")

	_, body := get(t, c, env.ts.URL+"/edit?sheet=ESCALA&ilha=Suporte")
	assert.Contains(t, body, `name="filtered" value="1"`)

	form := editForm([][]string{{"Ana", "Suporte", "Carla", "09:00", "F", "F"}})
	form.Set("filtered", "1")
	resp, err := c.PostForm(env.ts.URL+"/edit", form)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// A subset posted without the marker is caught by the shape check.
	form.Del("filtered")
	resp, err = c.PostForm(env.ts.URL+"/edit", form)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	rows, err := env.mem.Rows(t.Context(), "ESCALA")
	require.NoError(t, err)
	assert.Equal(t, testRows(), rows)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t, Config{})
	c := env.client(t)
	env.login(t, c, "ana@x.com", "segredo")
	get(t, c, env.ts.URL+"/")
	reads := env.mem.Reads()

	get(t, c, env.ts.URL+"/")
	assert.Equal(t, reads, env.mem.Reads(), "served from cache")

	resp, err := c.PostForm(env.ts.URL+"/refresh", url.Values{"back": {"sheet=ESCALA&date=01/10"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/?date=01%2F10&sheet=ESCALA", resp.Header.Get("Location"))

	get(t, c, env.ts.URL+"/")
	assert.Greater(t, env.mem.Reads(), reads)
}

func TestCSRFProtection(t *testing.T) {
	env := newTestEnv(t, Config{CSRFKey: []byte("0123456789abcdef0123456789abcdef")})
	c := env.client(t)

	resp := env.login(t, c, "ana@x.com", "segredo")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, body := get(t, c, env.ts.URL+"/login")
	assert.Contains(t, body, `name="csrf_token"`)
}

func TestNewRejectsShortCSRFKey(t *testing.T) {
	_, err := New(nil, nil, Config{CSRFKey: []byte("short")}, nil)
	assert.Error(t, err)
}

func TestNewRejectsShortSessionKey(t *testing.T) {
	_, err := New(nil, nil, Config{SessionKey: []byte("short")}, nil)
	assert.Error(t, err)
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
