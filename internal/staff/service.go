package staff

import (
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns every employee ordered by name ascending.
func (s *Service) List() ([]*Staff, error) {
	return s.repo.ListByName()
}

func (s *Service) Get(id int64) (*Staff, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(dto StaffDTO) (*Staff, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	member := &Staff{
		Name:            dto.Name,
		Email:           dto.Email,
		Phone:           dto.Phone,
		MaxHours:        dto.MaxHours,
		DaysUnavailable: dto.DaysUnavailable,
	}

	if err := s.repo.Create(member); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return nil, err
	}

	s.logger.Info("employee created", "staff_id", member.ID, "name", member.Name)
	return member, nil
}

func (s *Service) Update(id int64, dto StaffDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	member, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	member.Name = dto.Name
	member.Email = dto.Email
	member.Phone = dto.Phone
	member.MaxHours = dto.MaxHours
	member.DaysUnavailable = dto.DaysUnavailable

	if err := s.repo.Update(member); err != nil {
		s.logger.Error("failed to update employee", "staff_id", id, "error", err)
		return err
	}

	s.logger.Info("employee updated", "staff_id", id)
	return nil
}

// Delete removes an employee unconditionally. Assignments referencing the
// employee go with it through the foreign key cascade.
func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "staff_id", id, "error", err)
		return err
	}
	s.logger.Info("employee deleted", "staff_id", id)
	return nil
}
