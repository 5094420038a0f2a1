package roster

import (
	errors "github.com/rosterly/roster-management/internal"
)

// Roster is one date-range schedule container. Timestamps are kept as the
// same opaque "YYYY-MM-DD HH:MM:SS" text sqlite's datetime() produces.
type Roster struct {
	ID        int64   `gorm:"primaryKey;column:id" json:"id"`
	StartDate string  `gorm:"column:start_date" json:"start_date"`
	EndDate   string  `gorm:"column:end_date" json:"end_date"`
	PDFFile   string  `gorm:"column:pdf_file" json:"pdf_file"`
	CreatedAt string  `gorm:"column:created_at" json:"created_at"`
	EditedAt  *string `gorm:"column:edited_at" json:"edited_at"`
}

func (Roster) TableName() string { return "rosters" }

// Assignment ties an employee to a duty date with either a time range or a
// free-text hour count. duty_date is not checked against the roster's own
// range; out-of-range entries are stored but fall outside the printed
// matrix.
type Assignment struct {
	ID         int64  `gorm:"primaryKey;column:id" json:"id"`
	RosterID   int64  `gorm:"column:roster_id" json:"roster_id"`
	EmployeeID int64  `gorm:"column:employee_id" json:"employee_id"`
	DutyDate   string `gorm:"column:duty_date" json:"duty_date"`
	Shift      string `gorm:"column:shift" json:"shift"`
	Hours      string `gorm:"column:hours" json:"hours"`
	Note       string `gorm:"column:note" json:"note"`
	StartTime  string `gorm:"column:start_time" json:"start_time"`
	EndTime    string `gorm:"column:end_time" json:"end_time"`
}

func (Assignment) TableName() string { return "roster_assignments" }

type Repository interface {
	ListByCreated() ([]*Roster, error)
	Recent(limit int) ([]*Roster, error)
	GetByID(id int64) (*Roster, error)
	// CreateWithAssignments inserts the header and its assignments in one
	// transaction.
	CreateWithAssignments(r *Roster, assignments []*Assignment) error
	// UpdateWithAssignments updates the header and replaces the full
	// assignment set in one transaction, so readers never observe the
	// half-replaced state.
	UpdateWithAssignments(r *Roster, assignments []*Assignment) error
	AssignmentsByRoster(rosterID int64) ([]*Assignment, error)
	Delete(id int64) error
}

var (
	ErrRosterNotFound   = errors.ErrRosterNotFound
	ErrPDFNotFound      = errors.ErrPDFNotFound
	ErrMissingStartDate = errors.ErrMissingStartDate
	ErrInvalidDate      = errors.ErrInvalidDate
)
