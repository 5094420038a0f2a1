package auth

import (
	errors "github.com/rosterly/roster-management/internal"
)

// Manager is the authenticating user of the application. Managers are seeded
// on first run and only ever mutated through the password-change flow.
type Manager struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	Username     string `gorm:"column:username" json:"username"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
}

func (Manager) TableName() string { return "managers" }

type Repository interface {
	GetByUsername(username string) (*Manager, error)
	GetByID(id int64) (*Manager, error)
	UpdatePasswordHash(id int64, hash string) error
}

var (
	ErrInvalidCredentials = errors.ErrInvalidCredentials
	ErrWrongOldPassword   = errors.ErrWrongOldPassword
	ErrPasswordMismatch   = errors.ErrPasswordMismatch
	ErrInvalidToken       = errors.ErrInvalidToken
	ErrTokenExpired       = errors.ErrTokenExpired
)
