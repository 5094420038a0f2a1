// Package session wraps the signed-cookie session store: manager identity,
// flash messages, and the login gate applied to the protected route group.
package session

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "roster_session"

	keyManagerID = "manager_id"
	keyUsername  = "username"
)

// Flash is a one-shot user-visible message surfaced on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

type Manager struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

func NewManager(secret string, lg *slog.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, logger: lg}
}

// SignIn stores the authenticated manager's identity in the session.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, managerID int64, username string) error {
	s, _ := m.store.Get(r, sessionName)
	s.Values[keyManagerID] = managerID
	s.Values[keyUsername] = username
	return s.Save(r, w)
}

// SignOut clears the whole session.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	s.Values = make(map[interface{}]interface{})
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// CurrentManager returns the signed-in manager's id and username, if any.
func (m *Manager) CurrentManager(r *http.Request) (int64, string, bool) {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		return 0, "", false
	}
	id, ok := s.Values[keyManagerID].(int64)
	if !ok || id == 0 {
		return 0, "", false
	}
	username, _ := s.Values[keyUsername].(string)
	return id, username, true
}

// AddFlash queues a message for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	s, _ := m.store.Get(r, sessionName)
	s.AddFlash(Flash{Level: level, Message: message})
	if err := s.Save(r, w); err != nil {
		m.logger.Error("failed to save flash", "error", err)
	}
}

// Flashes pops and returns all queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s, _ := m.store.Get(r, sessionName)
	raw := s.Flashes()
	if len(raw) > 0 {
		if err := s.Save(r, w); err != nil {
			m.logger.Error("failed to clear flashes", "error", err)
		}
	}
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out
}

// RequireLogin guards the protected route group. Anything not behind this
// middleware (login page, static assets, token-authenticated API) is the
// explicit allow-list.
func (m *Manager) RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, _, ok := m.CurrentManager(r); !ok {
				m.AddFlash(w, r, "warning", "Please log in to access this page.")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
