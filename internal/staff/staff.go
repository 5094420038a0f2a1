package staff

import (
	errors "github.com/rosterly/roster-management/internal"
)

// Staff is one employee on the roster. max_hours and days_unavailable are
// free text supplied by the manager; nothing beyond the name is validated.
type Staff struct {
	ID              int64  `gorm:"primaryKey;column:id" json:"id"`
	Name            string `gorm:"column:name" json:"name"`
	Email           string `gorm:"column:email" json:"email"`
	Phone           string `gorm:"column:phone" json:"phone"`
	MaxHours        string `gorm:"column:max_hours" json:"max_hours"`
	DaysUnavailable string `gorm:"column:days_unavailable" json:"days_unavailable"`
}

func (Staff) TableName() string { return "staff" }

type Repository interface {
	ListByName() ([]*Staff, error)
	GetByID(id int64) (*Staff, error)
	Create(s *Staff) error
	Update(s *Staff) error
	Delete(id int64) error
}

var ErrStaffNotFound = errors.ErrStaffNotFound
