package sqlite

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/rosterly/roster-management/internal/company"
	"github.com/rosterly/roster-management/internal/pdf"
)

// ReportReader implements pdf.Reader with plain read-only queries through
// sqlx on the shared connection pool.
type ReportReader struct {
	db *sqlx.DB
}

func NewReportReader(db *sqlx.DB) pdf.Reader {
	return &ReportReader{db: db}
}

func (r *ReportReader) RosterMeta(rosterID int64) (*pdf.RosterMeta, error) {
	var meta pdf.RosterMeta
	err := r.db.Get(&meta,
		`SELECT id, start_date, end_date, created_at, edited_at FROM rosters WHERE id = ?`, rosterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, pdf.ErrRosterNotFound
		}
		return nil, err
	}
	return &meta, nil
}

func (r *ReportReader) StaffByName() ([]pdf.StaffRow, error) {
	var rows []pdf.StaffRow
	err := r.db.Select(&rows, `SELECT id, name, email FROM staff ORDER BY name ASC`)
	return rows, err
}

func (r *ReportReader) Assignments(rosterID int64) ([]pdf.AssignmentRow, error) {
	var rows []pdf.AssignmentRow
	err := r.db.Select(&rows,
		`SELECT employee_id, duty_date, shift, hours, note, start_time, end_time
		 FROM roster_assignments WHERE roster_id = ?`, rosterID)
	return rows, err
}

func (r *ReportReader) CompanyInfo() (string, string, error) {
	var info struct {
		CompanyName    string `db:"company_name"`
		DepartmentName string `db:"department_name"`
	}
	err := r.db.Get(&info,
		`SELECT company_name, department_name FROM company_info WHERE id = ?`, company.WellKnownID)
	if err != nil {
		if err == sql.ErrNoRows {
			return company.DefaultCompanyName, company.DefaultDepartmentName, nil
		}
		return "", "", err
	}
	return info.CompanyName, info.DepartmentName, nil
}
