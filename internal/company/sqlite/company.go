package sqlite

import (
	"github.com/rosterly/roster-management/internal/company"
	"gorm.io/gorm"
)

// CompanyRepository implements company.Repository using GORM against the
// single well-known row.
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Get() (*company.Info, error) {
	var info company.Info
	err := r.db.Where("id = ?", company.WellKnownID).First(&info).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &company.Info{
				ID:             company.WellKnownID,
				CompanyName:    company.DefaultCompanyName,
				DepartmentName: company.DefaultDepartmentName,
			}, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *CompanyRepository) Upsert(companyName, departmentName string) error {
	var existing company.Info
	err := r.db.Where("id = ?", company.WellKnownID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(&company.Info{
			ID:             company.WellKnownID,
			CompanyName:    companyName,
			DepartmentName: departmentName,
		}).Error
	}
	if err != nil {
		return err
	}

	if existing.CompanyName == companyName && existing.DepartmentName == departmentName {
		return nil
	}

	return r.db.Model(&company.Info{}).
		Where("id = ?", company.WellKnownID).
		Updates(map[string]interface{}{
			"company_name":    companyName,
			"department_name": departmentName,
		}).Error
}
