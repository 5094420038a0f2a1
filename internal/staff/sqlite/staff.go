package sqlite

import (
	"github.com/rosterly/roster-management/internal/staff"
	"gorm.io/gorm"
)

// StaffRepository implements staff.Repository using GORM.
type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) staff.Repository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) ListByName() ([]*staff.Staff, error) {
	var members []*staff.Staff
	err := r.db.Order("name ASC").Find(&members).Error
	return members, err
}

func (r *StaffRepository) GetByID(id int64) (*staff.Staff, error) {
	var member staff.Staff
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, staff.ErrStaffNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *StaffRepository) Create(s *staff.Staff) error {
	return r.db.Create(s).Error
}

func (r *StaffRepository) Update(s *staff.Staff) error {
	return r.db.Save(s).Error
}

func (r *StaffRepository) Delete(id int64) error {
	return r.db.Delete(&staff.Staff{}, id).Error
}
