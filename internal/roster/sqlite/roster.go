package sqlite

import (
	"errors"

	"gorm.io/gorm"

	internal "github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/roster"
)

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByCreated() ([]*roster.Roster, error) {
	var rosters []*roster.Roster
	if err := r.db.Order("created_at DESC").Find(&rosters).Error; err != nil {
		return nil, err
	}
	return rosters, nil
}

func (r *RosterRepository) Recent(limit int) ([]*roster.Roster, error) {
	var rosters []*roster.Roster
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&rosters).Error; err != nil {
		return nil, err
	}
	return rosters, nil
}

func (r *RosterRepository) GetByID(id int64) (*roster.Roster, error) {
	var rst roster.Roster
	if err := r.db.First(&rst, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRosterNotFound
		}
		return nil, err
	}
	return &rst, nil
}

func (r *RosterRepository) CreateWithAssignments(rst *roster.Roster, assignments []*roster.Assignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rst).Error; err != nil {
			return err
		}
		for _, a := range assignments {
			a.RosterID = rst.ID
		}
		if len(assignments) > 0 {
			if err := tx.Create(&assignments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RosterRepository) UpdateWithAssignments(rst *roster.Roster, assignments []*roster.Assignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rst).Error; err != nil {
			return err
		}
		// Replace, not merge: the submitted set is the whole truth.
		if err := tx.Where("roster_id = ?", rst.ID).Delete(&roster.Assignment{}).Error; err != nil {
			return err
		}
		for _, a := range assignments {
			a.ID = 0
			a.RosterID = rst.ID
		}
		if len(assignments) > 0 {
			if err := tx.Create(&assignments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RosterRepository) AssignmentsByRoster(rosterID int64) ([]*roster.Assignment, error) {
	var assignments []*roster.Assignment
	if err := r.db.Where("roster_id = ?", rosterID).Order("duty_date ASC, id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *RosterRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roster_id = ?", id).Delete(&roster.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&roster.Roster{}, "id = ?", id).Error
	})
}
