package roster

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// AssignmentDTO is one duty record as submitted by the client. The payload
// shape evolved over time, so the times are accepted under both the short
// ("start"/"end") and long ("start_time"/"end_time") key names, and numeric
// fields may arrive as JSON numbers or strings.
type AssignmentDTO struct {
	EmployeeID int64
	DutyDate   string
	Shift      string
	Hours      string
	Note       string
	Start      string
	End        string
}

func (d *AssignmentDTO) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	d.EmployeeID = coerceInt(raw["employee_id"])
	d.DutyDate = coerceString(raw["duty_date"])
	d.Shift = coerceString(raw["shift"])
	d.Hours = coerceString(raw["hours"])
	d.Note = coerceString(raw["note"])

	d.Start = coerceString(raw["start"])
	if d.Start == "" {
		d.Start = coerceString(raw["start_time"])
	}
	d.End = coerceString(raw["end"])
	if d.End == "" {
		d.End = coerceString(raw["end_time"])
	}
	return nil
}

func coerceString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}

func coerceInt(v interface{}) int64 {
	switch value := v.(type) {
	case float64:
		return int64(value)
	case string:
		id, _ := strconv.ParseInt(value, 10, 64)
		return id
	case json.Number:
		id, _ := value.Int64()
		return id
	default:
		return 0
	}
}

// ParseAssignments decodes the submitted assignment array. Malformed JSON is
// recovered to an empty list rather than failing the whole request.
func ParseAssignments(payload string) []AssignmentDTO {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	var assignments []AssignmentDTO
	if err := json.Unmarshal([]byte(payload), &assignments); err != nil {
		return nil
	}
	return assignments
}

type SaveRosterDTO struct {
	StartDate       string
	EndDate         string
	AssignmentsJSON string
	CompanyName     string
	DepartmentName  string
	EditRosterID    int64
}

func SaveRosterDTOFromForm(r *http.Request) SaveRosterDTO {
	editID, _ := strconv.ParseInt(r.PostFormValue("edit_roster_id"), 10, 64)
	assignments := r.PostFormValue("assignments")
	if assignments == "" {
		assignments = "[]"
	}
	return SaveRosterDTO{
		StartDate:       r.PostFormValue("start_date"),
		EndDate:         r.PostFormValue("end_date"),
		AssignmentsJSON: assignments,
		CompanyName:     strings.TrimSpace(r.PostFormValue("company_name")),
		DepartmentName:  strings.TrimSpace(r.PostFormValue("department_name")),
		EditRosterID:    editID,
	}
}

// ResolveDates applies the end-date rule: when end_date is absent it becomes
// start_date plus six days, a one-week roster.
func (d SaveRosterDTO) ResolveDates() (string, string, error) {
	if d.StartDate == "" {
		return "", "", ErrMissingStartDate
	}
	if d.EndDate != "" {
		return d.StartDate, d.EndDate, nil
	}

	start, err := time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return "", "", ErrInvalidDate
	}
	return d.StartDate, start.AddDate(0, 0, 6).Format(dateLayout), nil
}
