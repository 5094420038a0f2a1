package dashboard

import (
	"log/slog"

	"github.com/rosterly/roster-management/internal/pdf"
)

// Summary is everything the landing page shows at a glance.
type Summary struct {
	CompanyName    string
	DepartmentName string
	EmployeeCount  int64
	RosterCount    int64
	LatestRoster   *RosterInfo
	TodayDuties    []Duty
}

type RosterInfo struct {
	ID        int64   `db:"id"`
	StartDate string  `db:"start_date"`
	EndDate   string  `db:"end_date"`
	PDFFile   string  `db:"pdf_file"`
	CreatedAt string  `db:"created_at"`
	EditedAt  *string `db:"edited_at"`
}

// Duty is one staff member's schedule entry for today.
type Duty struct {
	EmployeeName string
	Schedule     string
	Hours        float64
}

type DutyRow struct {
	EmployeeName string `db:"employee_name"`
	Shift        string `db:"shift"`
	Hours        string `db:"hours"`
	Note         string `db:"note"`
	StartTime    string `db:"start_time"`
	EndTime      string `db:"end_time"`
}

type Repository interface {
	EmployeeCount() (int64, error)
	RosterCount() (int64, error)
	LatestRoster() (*RosterInfo, error)
	DutiesForDate(date string) ([]DutyRow, error)
	CompanyInfo() (companyName, departmentName string, err error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("component", "dashboard_service")}
}

// Overview collects the summary for a given day, normally today.
func (s *Service) Overview(date string) (*Summary, error) {
	summary := &Summary{}

	var err error
	if summary.CompanyName, summary.DepartmentName, err = s.repo.CompanyInfo(); err != nil {
		return nil, err
	}
	if summary.EmployeeCount, err = s.repo.EmployeeCount(); err != nil {
		return nil, err
	}
	if summary.RosterCount, err = s.repo.RosterCount(); err != nil {
		return nil, err
	}
	if summary.LatestRoster, err = s.repo.LatestRoster(); err != nil {
		return nil, err
	}

	rows, err := s.repo.DutiesForDate(date)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		assignment := pdf.AssignmentRow{
			Shift:     row.Shift,
			Hours:     row.Hours,
			Note:      row.Note,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			DutyDate:  date,
		}
		summary.TodayDuties = append(summary.TodayDuties, Duty{
			EmployeeName: row.EmployeeName,
			Schedule:     pdf.CellText([]pdf.AssignmentRow{assignment}),
			Hours:        pdf.AssignmentHours(assignment),
		})
	}

	return summary, nil
}
