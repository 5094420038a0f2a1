package staff

import (
	"net/http"
	"strings"

	errors "github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/validation"
)

type StaffDTO struct {
	Name            string
	Email           string
	Phone           string
	MaxHours        string
	DaysUnavailable string
}

// StaffDTOFromForm maps the employee form. days_unavailable arrives either as
// repeated checkbox fields or as a single comma-delimited string; both are
// stored comma-joined, tokens untouched.
func StaffDTOFromForm(r *http.Request) StaffDTO {
	_ = r.ParseForm()
	return StaffDTO{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		MaxHours:        r.PostFormValue("max_hours"),
		DaysUnavailable: JoinDayTokens(r.PostForm["days_unavailable"]),
	}
}

// WeekDays is the checkbox order on the employee form and the token
// vocabulary stored in days_unavailable.
var WeekDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func JoinDayTokens(values []string) string {
	return strings.Join(values, ",")
}

// SplitDayTokens is the inverse used when re-populating the edit form.
func SplitDayTokens(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

func (d StaffDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required()
	return v.Validate()
}
