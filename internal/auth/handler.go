package auth

import (
	"context"
	"encoding/json"
	"net/http"

	internal "github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/session"
	"github.com/rosterly/roster-management/internal/transport"
	"github.com/rosterly/roster-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions *session.Manager
}

func NewHandler(svc ServiceAPI, sessions *session.Manager) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		Sessions:    sessions,
	}
}

type loginPageData struct {
	Flashes []session.Flash
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.Sessions.CurrentManager(r); ok {
		h.Redirect(w, r, "/")
		return
	}
	h.Render(w, "login.html", loginPageData{Flashes: h.Sessions.Flashes(w, r)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	dto := LoginDTOFromForm(r)

	manager, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("login failed", "username", dto.Username)
		h.Sessions.AddFlash(w, r, "danger", "Invalid credentials. Try again.")
		h.Redirect(w, r, "/login")
		return
	}

	if err := h.Sessions.SignIn(w, r, manager.ID, manager.Username); err != nil {
		h.Logger.Error("failed to establish session", "error", err)
		h.Sessions.AddFlash(w, r, "danger", "Could not establish a session.")
		h.Redirect(w, r, "/login")
		return
	}

	h.Sessions.AddFlash(w, r, "success", "Login successful!")
	h.Redirect(w, r, "/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Logger.Error("failed to clear session", "error", err)
	}
	h.Sessions.AddFlash(w, r, "info", "You have been logged out.")
	h.Redirect(w, r, "/login")
}

type changePasswordPageData struct {
	Username string
	Flashes  []session.Flash
}

func (h *Handler) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	_, username, _ := h.Sessions.CurrentManager(r)
	h.Render(w, "change_password.html", changePasswordPageData{
		Username: username,
		Flashes:  h.Sessions.Flashes(w, r),
	})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	managerID, _, _ := h.Sessions.CurrentManager(r)
	dto := ChangePasswordDTOFromForm(r)

	if err := h.Service.ChangePassword(managerID, dto); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.Sessions.AddFlash(w, r, "danger", appErr.Message)
		} else {
			h.Logger.Error("change password failed", "manager_id", managerID, "error", err)
			h.Sessions.AddFlash(w, r, "danger", "Could not update password.")
		}
		h.Redirect(w, r, "/change_password")
		return
	}

	h.Sessions.AddFlash(w, r, "success", "Password updated successfully!")
	h.Redirect(w, r, "/")
}

// APIToken exchanges credentials for a bearer token used by programmatic
// clients of the JSON endpoints.
func (h *Handler) APIToken(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Service.IssueAPIToken(dto)
	if err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.WriteJSON(w, http.StatusOK, token)
}

// APIAuthMiddleware authorizes JSON endpoints. A browser session is accepted
// as-is; otherwise a bearer token is required.
func (h *Handler) APIAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, _, ok := h.Sessions.CurrentManager(r); ok {
			next.ServeHTTP(w, r.WithContext(managerContext(r.Context(), id)))
			return
		}

		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization")
			return
		}

		claims, err := h.Service.ValidateAPIToken(token)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(managerContext(r.Context(), claims.ManagerIDInt())))
	})
}

func managerContext(ctx context.Context, managerID int64) context.Context {
	return internal.ContextWithManagerID(ctx, managerID)
}
