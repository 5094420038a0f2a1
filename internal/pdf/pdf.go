// Package pdf renders a roster into the printable duty-matrix document:
// date columns, employee rows, and a per-employee totals table.
package pdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	errors "github.com/rosterly/roster-management/internal"
)

const dateLayout = "2006-01-02"

// RosterMeta is the roster header as stored, read back for rendering.
type RosterMeta struct {
	ID        int64   `db:"id"`
	StartDate string  `db:"start_date"`
	EndDate   string  `db:"end_date"`
	CreatedAt string  `db:"created_at"`
	EditedAt  *string `db:"edited_at"`
}

type StaffRow struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

type AssignmentRow struct {
	EmployeeID int64  `db:"employee_id"`
	DutyDate   string `db:"duty_date"`
	Shift      string `db:"shift"`
	Hours      string `db:"hours"`
	Note       string `db:"note"`
	StartTime  string `db:"start_time"`
	EndTime    string `db:"end_time"`
}

// Reader supplies everything a render needs from storage.
type Reader interface {
	RosterMeta(rosterID int64) (*RosterMeta, error)
	StaffByName() ([]StaffRow, error)
	Assignments(rosterID int64) ([]AssignmentRow, error)
	CompanyInfo() (companyName, departmentName string, err error)
}

var ErrRosterNotFound = errors.ErrRosterNotFound

// Filename is the deterministic document name for a date range. Two rosters
// sharing a range overwrite each other's file; that is a known limitation.
func Filename(startDate, endDate string) string {
	return fmt.Sprintf("roster_%s_%s.pdf", startDate, endDate)
}

// DateRange returns the inclusive list of YYYY-MM-DD dates between start and
// end. Dates are opaque calendar tokens; no timezone handling.
func DateRange(startDate, endDate string) ([]string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, errors.ErrInvalidDate.WithCause(err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, errors.ErrInvalidDate.WithCause(err)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// ShiftHours computes wall-clock hours between two HH:MM (or HH:MM:SS)
// times. An end at or before the start means the shift runs past midnight
// and gains 24 hours; 09:00-09:00 is a full 24-hour shift by this rule.
func ShiftHours(startTime, endTime string) float64 {
	if startTime == "" || endTime == "" {
		return 0
	}

	start, ok := parseClock(startTime)
	if !ok {
		return 0
	}
	end, ok := parseClock(endTime)
	if !ok {
		return 0
	}

	elapsed := end.Sub(start)
	if elapsed <= 0 {
		elapsed += 24 * time.Hour
	}
	return round2(elapsed.Hours())
}

func parseClock(value string) (time.Time, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AssignmentHours yields the hour contribution of one assignment: a computed
// time-range difference when both times are present, otherwise the free-text
// hours field parsed as a float, zero on parse failure.
func AssignmentHours(a AssignmentRow) float64 {
	if a.StartTime != "" && a.EndTime != "" {
		return ShiftHours(a.StartTime, a.EndTime)
	}
	if a.Hours == "" {
		return 0
	}
	hours, err := strconv.ParseFloat(strings.TrimSpace(a.Hours), 64)
	if err != nil {
		return 0
	}
	return hours
}

// CellText formats the assignments that fall on one (employee, date) cell:
// one line per assignment, time range preferred over the hours count, shift
// label prefixed, note appended in parentheses.
func CellText(assignments []AssignmentRow) string {
	lines := make([]string, 0, len(assignments))
	for _, a := range assignments {
		var display string
		switch {
		case a.StartTime != "" && a.EndTime != "":
			display = a.StartTime + "-" + a.EndTime
		case a.Hours != "":
			display = a.Hours + "h"
		}

		if a.Shift != "" {
			if display != "" {
				display = a.Shift + ": " + display
			} else {
				display = a.Shift
			}
		}
		if a.Note != "" {
			if display != "" {
				display = display + " (" + a.Note + ")"
			} else {
				display = "(" + a.Note + ")"
			}
		}

		lines = append(lines, display)
	}
	return strings.Join(lines, "\n")
}

// IndexAssignments builds the (employee, duty date) lookup. A cell may hold
// several assignments, e.g. split shifts.
func IndexAssignments(assignments []AssignmentRow) map[int64]map[string][]AssignmentRow {
	index := make(map[int64]map[string][]AssignmentRow)
	for _, a := range assignments {
		byDate, ok := index[a.EmployeeID]
		if !ok {
			byDate = make(map[string][]AssignmentRow)
			index[a.EmployeeID] = byDate
		}
		byDate[a.DutyDate] = append(byDate[a.DutyDate], a)
	}
	return index
}

// TotalHours sums every assignment of one employee across the whole roster.
func TotalHours(byDate map[string][]AssignmentRow) float64 {
	var total float64
	for _, list := range byDate {
		for _, a := range list {
			total += AssignmentHours(a)
		}
	}
	return round2(total)
}

// ColumnHeader renders a date column title, weekday abbreviation on top.
func ColumnHeader(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon") + "\n" + date
}
