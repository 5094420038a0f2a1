package sqlite

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/rosterly/roster-management/internal/company"
	"github.com/rosterly/roster-management/internal/dashboard"
)

// DashboardRepository serves the read-only landing page queries straight
// from sqlx, bypassing the ORM.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) EmployeeCount() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM staff")
	return count, err
}

func (r *DashboardRepository) RosterCount() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM rosters")
	return count, err
}

func (r *DashboardRepository) LatestRoster() (*dashboard.RosterInfo, error) {
	var info dashboard.RosterInfo
	err := r.db.Get(&info, `
		SELECT id, start_date, end_date, pdf_file, created_at, edited_at
		FROM rosters
		ORDER BY created_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *DashboardRepository) DutiesForDate(date string) ([]dashboard.DutyRow, error) {
	var rows []dashboard.DutyRow
	err := r.db.Select(&rows, `
		SELECT s.name AS employee_name, a.shift, a.hours, a.note, a.start_time, a.end_time
		FROM roster_assignments a
		JOIN staff s ON s.id = a.employee_id
		WHERE a.duty_date = ?
		ORDER BY s.name ASC`, date)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DashboardRepository) CompanyInfo() (string, string, error) {
	var info struct {
		CompanyName    string `db:"company_name"`
		DepartmentName string `db:"department_name"`
	}
	err := r.db.Get(&info, "SELECT company_name, department_name FROM company_info WHERE id = ?", company.WellKnownID)
	if errors.Is(err, sql.ErrNoRows) {
		return company.DefaultCompanyName, company.DefaultDepartmentName, nil
	}
	if err != nil {
		return "", "", err
	}
	return info.CompanyName, info.DepartmentName, nil
}
