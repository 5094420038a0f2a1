package sqlite

import (
	"github.com/rosterly/roster-management/internal/auth"
	"gorm.io/gorm"
)

// ManagerRepository implements auth.Repository using GORM.
type ManagerRepository struct {
	db *gorm.DB
}

func NewManagerRepository(db *gorm.DB) auth.Repository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) GetByUsername(username string) (*auth.Manager, error) {
	var m auth.Manager
	err := r.db.Where("username = ?", username).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &m, nil
}

func (r *ManagerRepository) GetByID(id int64) (*auth.Manager, error) {
	var m auth.Manager
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ManagerRepository) UpdatePasswordHash(id int64, hash string) error {
	return r.db.Model(&auth.Manager{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}
