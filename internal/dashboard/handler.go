package dashboard

import (
	"net/http"
	"time"

	"github.com/rosterly/roster-management/internal/session"
	"github.com/rosterly/roster-management/internal/transport"
	"github.com/rosterly/roster-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  *Service
	Sessions *session.Manager
}

func NewHandler(svc *Service, sessions *session.Manager) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		Sessions:    sessions,
	}
}

type dashboardPageData struct {
	Summary  *Summary
	Today    string
	Username string
	Flashes  []session.Flash
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format("2006-01-02")

	summary, err := h.Service.Overview(today)
	if err != nil {
		h.Logger.Error("dashboard overview failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, username, _ := h.Sessions.CurrentManager(r)
	h.Render(w, "dashboard.html", dashboardPageData{
		Summary:  summary,
		Today:    today,
		Username: username,
		Flashes:  h.Sessions.Flashes(w, r),
	})
}
