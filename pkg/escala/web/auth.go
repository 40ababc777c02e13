package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/wfm-tools/escala-go/pkg/escala/session"
)

const sessionCookieName = session.CookieName

// Login reasons shown on the login page.
const (
	reasonSuperseded = "superseded"
	reasonExpired    = "expired"
	reasonLoggedOut  = "logout"
)

var reasonMessages = map[string]string{
	reasonSuperseded: "Sua sessão foi encerrada porque esta conta entrou em outro dispositivo.",
	reasonExpired:    "Sua sessão expirou. Entre novamente.",
	reasonLoggedOut:  "Você saiu.",
}

type authUser struct {
	Identity  string
	SessionID string
	User      session.User
}

type authKey struct{}

func currentUser(r *http.Request) (authUser, bool) {
	u, ok := r.Context().Value(authKey{}).(authUser)
	return u, ok
}

// requireSession admits requests carrying a signed cookie with the active
// session token of a known identity. A token displaced by a newer login is cleared and sent to
// the login page with a notice.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		tok, err := s.codec.Decode(cookie.Value)
		if err != nil {
			s.logger.Warn("session_rejected", "path", r.URL.Path, "error", err)
			s.redirectLogin(w, r, reasonExpired)
			return
		}
		user, ok := s.creds.Lookup(tok.Identity)
		if !ok {
			s.redirectLogin(w, r, reasonExpired)
			return
		}
		if s.registry.Claim(tok.Identity, tok.SessionID) == session.Superseded {
			s.logger.Info("session_superseded", "identity", tok.Identity, "path", r.URL.Path)
			s.redirectLogin(w, r, reasonSuperseded)
			return
		}
		ctx := context.WithValue(r.Context(), authKey{}, authUser{
			Identity:  tok.Identity,
			SessionID: tok.SessionID,
			User:      user,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := currentUser(r)
		if !ok || !u.User.CanEdit() {
			s.logger.Warn("auth_denied", "path", r.URL.Path, "identity", u.Identity, "required", session.RoleEditor)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) redirectLogin(w http.ResponseWriter, r *http.Request, reason string) {
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login?reason="+url.QueryEscape(reason), http.StatusSeeOther)
}

type loginView struct {
	page
	// Login is the identity typed in a failed attempt.
	Login string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	v := loginView{page: s.page(r, "Entrar")}
	v.Notice = reasonMessages[r.URL.Query().Get("reason")]
	s.render(w, r, http.StatusOK, "login.html", v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	identity := r.PostFormValue("identity")
	id, _, err := s.creds.Authenticate(identity, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			s.internalError(w, err)
			return
		}
		s.logger.Warn("login_failed", "identity", identity)
		v := loginView{page: s.page(r, "Entrar"), Login: identity}
		v.Error = "E-mail ou senha inválidos."
		s.render(w, r, http.StatusUnauthorized, "login.html", v)
		return
	}

	tok := session.NewToken(id)
	if s.registry.Takeover(id, tok.SessionID) {
		s.logger.Info("session_takeover", "identity", id)
	}
	if err := s.setSessionCookie(w, tok); err != nil {
		s.registry.Release(id, tok.SessionID)
		s.internalError(w, err)
		return
	}
	s.logger.Info("login", "identity", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := currentUser(r); ok {
		s.registry.Release(u.Identity, u.SessionID)
		s.logger.Info("logout", "identity", u.Identity)
	}
	s.redirectLogin(w, r, reasonLoggedOut)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, tok session.Token) error {
	value, err := s.codec.Encode(tok)
	if err != nil {
		return err
	}
	maxAge := session.TokenMaxAge(s.cfg.TokenDays)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  s.now().Add(maxAge),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
