package roster

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi"
	internal "github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/company"
	"github.com/rosterly/roster-management/internal/export"
	"github.com/rosterly/roster-management/internal/session"
	"github.com/rosterly/roster-management/internal/staff"
	"github.com/rosterly/roster-management/internal/transport"
	"github.com/rosterly/roster-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service    *Service
	Staff      *staff.Service
	Excel      *export.ExcelExporter
	Sessions   *session.Manager
	rostersDir string
}

func NewHandler(svc *Service, staffSvc *staff.Service, excel *export.ExcelExporter, sessions *session.Manager) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		Staff:       staffSvc,
		Excel:       excel,
		Sessions:    sessions,
		rostersDir:  svc.rostersDir,
	}
}

type rostersPageData struct {
	Employees       []*staff.Staff
	Rosters         []*Roster
	RecentRosters   []*Roster
	Company         *company.Info
	EditRoster      *Roster
	EditAssignments []*Assignment
	Flashes         []session.Flash
}

// Page serves GET /rosters. The delete_id and edit_id query parameters keep
// the original route shape: deletion happens here too, and edit_id preloads
// the form.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if deleteID, err := strconv.ParseInt(r.URL.Query().Get("delete_id"), 10, 64); err == nil && deleteID > 0 {
		if err := h.Service.Delete(deleteID); err != nil {
			h.flashError(w, r, err, "Could not delete roster.")
		} else {
			h.Sessions.AddFlash(w, r, "danger", "Roster and PDF deleted successfully")
		}
		h.Redirect(w, r, "/rosters")
		return
	}

	data := rostersPageData{Flashes: h.Sessions.Flashes(w, r)}

	var err error
	if data.Employees, err = h.Staff.List(); err != nil {
		h.serverError(w, err)
		return
	}
	if data.Rosters, err = h.Service.List(); err != nil {
		h.serverError(w, err)
		return
	}
	if data.RecentRosters, err = h.Service.Recent(5); err != nil {
		h.serverError(w, err)
		return
	}
	if data.Company, err = h.Service.CompanyInfo(); err != nil {
		h.serverError(w, err)
		return
	}

	if editID, err := strconv.ParseInt(r.URL.Query().Get("edit_id"), 10, 64); err == nil && editID > 0 {
		rst, assignments, err := h.Service.EditData(editID)
		if err != nil {
			h.Sessions.AddFlash(w, r, "danger", "Roster not found.")
			h.Redirect(w, r, "/rosters")
			return
		}
		data.EditRoster = rst
		data.EditAssignments = assignments
	}

	h.Render(w, "rosters.html", data)
}

// Save serves POST /rosters: create or update, then PDF generation.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	dto := SaveRosterDTOFromForm(r)

	if _, err := h.Service.Save(dto); err != nil {
		h.flashError(w, r, err, "Could not save roster.")
		h.Redirect(w, r, "/rosters")
		return
	}

	h.Sessions.AddFlash(w, r, "success", "Roster saved successfully!")
	h.Redirect(w, r, "/rosters")
}

// Download serves a generated PDF inline so the preview iframe can show it.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	// Base strips any path traversal out of the requested name.
	filename := filepath.Base(chi.URLParam(r, "filename"))
	path := filepath.Join(h.rostersDir, filename)

	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	h.ServeInlineFile(w, r, path, filename, "application/pdf")
}

// View is the backward-compatible alias of Download.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.Download(w, r)
}

// Load serves GET /rosters/load/{roster_id} as JSON for the edit form.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "roster_id"), 10, 64)

	payload, err := h.Service.LoadPayload(id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, payload)
}

// Export serves the duty matrix as an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "roster_id"), 10, 64)

	buf, filename, err := h.Excel.Build(id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write xlsx response", "error", err)
	}
}

// Email sends the generated PDF to every staff member with an email address.
func (h *Handler) Email(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "roster_id"), 10, 64)

	employees, err := h.Staff.List()
	if err != nil {
		h.serverError(w, err)
		return
	}

	var recipients []string
	for _, member := range employees {
		if member.Email != "" {
			recipients = append(recipients, member.Email)
		}
	}
	if len(recipients) == 0 {
		h.Sessions.AddFlash(w, r, "warning", "No staff email addresses on file.")
		h.Redirect(w, r, "/rosters")
		return
	}

	if err := h.Service.EmailRoster(id, recipients); err != nil {
		if err == ErrMailNotConfigured {
			h.Sessions.AddFlash(w, r, "warning", "Email delivery is not configured.")
		} else {
			h.flashError(w, r, err, "Could not email roster.")
		}
		h.Redirect(w, r, "/rosters")
		return
	}

	h.Sessions.AddFlash(w, r, "success", "Roster emailed to staff.")
	h.Redirect(w, r, "/rosters")
}

func (h *Handler) flashError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.Sessions.AddFlash(w, r, "danger", appErr.Message)
		return
	}
	h.Logger.Error("roster operation failed", "error", err)
	h.Sessions.AddFlash(w, r, "danger", fallback)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.Logger.Error("roster page failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
