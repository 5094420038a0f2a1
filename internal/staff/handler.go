package staff

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	internal "github.com/rosterly/roster-management/internal"
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

type listPageData struct {
	Employees []*Staff
	Flashes   []session.Flash
}

type formPageData struct {
	Action   string
	Employee *Staff
	Days     []string
	WeekDays []string
	Flashes  []session.Flash
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List()
	if err != nil {
		h.Logger.Error("failed to list employees", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.Render(w, "employees.html", listPageData{
		Employees: employees,
		Flashes:   h.Sessions.Flashes(w, r),
	})
}

func (h *Handler) AddPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, "employee_form.html", formPageData{
		Action:   "Add",
		WeekDays: WeekDays,
		Flashes:  h.Sessions.Flashes(w, r),
	})
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	dto := StaffDTOFromForm(r)

	if _, err := h.Service.Create(dto); err != nil {
		h.flashError(w, r, err, "Could not add employee.")
		h.Redirect(w, r, "/employees/add")
		return
	}

	h.Sessions.AddFlash(w, r, "success", "Employee added successfully")
	h.Redirect(w, r, "/employees")
}

func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	member, err := h.Service.Get(id)
	if err != nil {
		h.Sessions.AddFlash(w, r, "danger", "Employee not found.")
		h.Redirect(w, r, "/employees")
		return
	}
	h.Render(w, "employee_form.html", formPageData{
		Action:   "Edit",
		Employee: member,
		Days:     SplitDayTokens(member.DaysUnavailable),
		WeekDays: WeekDays,
		Flashes:  h.Sessions.Flashes(w, r),
	})
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	dto := StaffDTOFromForm(r)

	if err := h.Service.Update(id, dto); err != nil {
		h.flashError(w, r, err, "Could not update employee.")
		h.Redirect(w, r, "/employees")
		return
	}

	h.Sessions.AddFlash(w, r, "info", "Employee updated successfully")
	h.Redirect(w, r, "/employees")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	if err := h.Service.Delete(id); err != nil {
		h.flashError(w, r, err, "Could not delete employee.")
		h.Redirect(w, r, "/employees")
		return
	}
	h.Sessions.AddFlash(w, r, "danger", "Employee deleted successfully")
	h.Redirect(w, r, "/employees")
}

func (h *Handler) flashError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.Sessions.AddFlash(w, r, "danger", appErr.Message)
		return
	}
	h.Logger.Error("employee operation failed", "error", err)
	h.Sessions.AddFlash(w, r, "danger", fallback)
}

func urlID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
