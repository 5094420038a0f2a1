package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rosterly/roster-management/internal/company"
	"github.com/rosterly/roster-management/internal/pdf"
)

const timestampLayout = "2006-01-02 15:04:05"

// PDFGenerator renders a persisted roster into its document file.
type PDFGenerator interface {
	Generate(rosterID int64) (string, error)
}

// Mailer delivers a generated roster to the staff. Nil when SMTP is not
// configured.
type Mailer interface {
	SendRoster(recipients []string, subject, body, attachmentPath string) error
}

var ErrMailNotConfigured = errors.New("email delivery is not configured")

type Service struct {
	repo        Repository
	companyRepo company.Repository
	pdfGen      PDFGenerator
	mailer      Mailer
	rostersDir  string
	logger      *slog.Logger
}

func NewService(repo Repository, companyRepo company.Repository, pdfGen PDFGenerator, mailer Mailer, rostersDir string, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		companyRepo: companyRepo,
		pdfGen:      pdfGen,
		mailer:      mailer,
		rostersDir:  rostersDir,
		logger:      logger,
	}
}

// Save creates or updates a roster from the submitted form: resolves the
// date range, upserts the company header text, persists the header and its
// full assignment set, then renders the PDF. Validation failures happen
// before any write.
func (s *Service) Save(dto SaveRosterDTO) (*Roster, error) {
	startDate, endDate, err := dto.ResolveDates()
	if err != nil {
		return nil, err
	}

	if err := s.upsertCompany(dto.CompanyName, dto.DepartmentName); err != nil {
		s.logger.Error("failed to upsert company info", "error", err)
		return nil, err
	}

	filename := pdf.Filename(startDate, endDate)
	assignments := s.assignmentRows(ParseAssignments(dto.AssignmentsJSON))
	now := time.Now().UTC().Format(timestampLayout)

	var rst *Roster
	if dto.EditRosterID != 0 {
		rst, err = s.repo.GetByID(dto.EditRosterID)
		if err != nil {
			return nil, err
		}
		rst.StartDate = startDate
		rst.EndDate = endDate
		rst.PDFFile = filename
		rst.EditedAt = &now

		if err := s.repo.UpdateWithAssignments(rst, assignments); err != nil {
			s.logger.Error("failed to update roster", "roster_id", rst.ID, "error", err)
			return nil, err
		}
	} else {
		rst = &Roster{
			StartDate: startDate,
			EndDate:   endDate,
			PDFFile:   filename,
			CreatedAt: now,
		}
		if err := s.repo.CreateWithAssignments(rst, assignments); err != nil {
			s.logger.Error("failed to create roster", "error", err)
			return nil, err
		}
	}

	if _, err := s.pdfGen.Generate(rst.ID); err != nil {
		s.logger.Error("failed to generate roster pdf", "roster_id", rst.ID, "error", err)
		return nil, err
	}

	s.logger.Info("roster saved",
		"roster_id", rst.ID,
		"start_date", startDate,
		"end_date", endDate,
		"assignments", len(assignments),
		"edit", dto.EditRosterID != 0)

	return rst, nil
}

// upsertCompany keeps the singleton header text current. Blank submissions
// fall back to whatever is stored.
func (s *Service) upsertCompany(companyName, departmentName string) error {
	current, err := s.companyRepo.Get()
	if err != nil {
		return err
	}
	if companyName == "" {
		companyName = current.CompanyName
	}
	if departmentName == "" {
		departmentName = current.DepartmentName
	}
	return s.companyRepo.Upsert(companyName, departmentName)
}

func (s *Service) assignmentRows(dtos []AssignmentDTO) []*Assignment {
	rows := make([]*Assignment, 0, len(dtos))
	for _, d := range dtos {
		rows = append(rows, &Assignment{
			EmployeeID: d.EmployeeID,
			DutyDate:   d.DutyDate,
			Shift:      d.Shift,
			Hours:      d.Hours,
			Note:       d.Note,
			StartTime:  d.Start,
			EndTime:    d.End,
		})
	}
	return rows
}

// Delete removes the roster's on-disk PDF if present, then the row itself;
// assignments go with it through the cascade.
func (s *Service) Delete(id int64) error {
	rst, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if rst.PDFFile != "" {
		path := filepath.Join(s.rostersDir, rst.PDFFile)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove roster pdf", "path", path, "error", err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete roster", "roster_id", id, "error", err)
		return err
	}

	s.logger.Info("roster deleted", "roster_id", id)
	return nil
}

func (s *Service) List() ([]*Roster, error) {
	return s.repo.ListByCreated()
}

func (s *Service) Recent(limit int) ([]*Roster, error) {
	return s.repo.Recent(limit)
}

func (s *Service) Get(id int64) (*Roster, error) {
	return s.repo.GetByID(id)
}

// EditData returns the header and assignment rows used to re-populate the
// edit form.
func (s *Service) EditData(id int64) (*Roster, []*Assignment, error) {
	rst, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := s.repo.AssignmentsByRoster(id)
	if err != nil {
		return nil, nil, err
	}
	return rst, assignments, nil
}

func (s *Service) CompanyInfo() (*company.Info, error) {
	return s.companyRepo.Get()
}

// LoadPayload builds the JSON array the client expects: a meta object first,
// then one object per assignment with the short "start"/"end" key names.
func (s *Service) LoadPayload(id int64) ([]map[string]interface{}, error) {
	rst, assignments, err := s.EditData(id)
	if err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(assignments)+1)
	result = append(result, map[string]interface{}{
		"meta": map[string]interface{}{
			"roster_id":  rst.ID,
			"start_date": rst.StartDate,
			"end_date":   rst.EndDate,
			"created_at": rst.CreatedAt,
			"edited_at":  rst.EditedAt,
		},
	})

	for _, a := range assignments {
		result = append(result, map[string]interface{}{
			"employee_id": a.EmployeeID,
			"duty_date":   a.DutyDate,
			"start":       a.StartTime,
			"end":         a.EndTime,
			"shift":       a.Shift,
			"hours":       a.Hours,
			"note":        a.Note,
		})
	}

	return result, nil
}

// EmailRoster sends the generated PDF to the given staff addresses.
func (s *Service) EmailRoster(id int64, recipients []string) error {
	if s.mailer == nil {
		return ErrMailNotConfigured
	}

	rst, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if rst.PDFFile == "" {
		return ErrPDFNotFound
	}

	path := filepath.Join(s.rostersDir, rst.PDFFile)
	if _, err := os.Stat(path); err != nil {
		return ErrPDFNotFound
	}

	subject := fmt.Sprintf("Roster %s - %s", rst.StartDate, rst.EndDate)
	body := "Please find your weekly roster attached."
	if err := s.mailer.SendRoster(recipients, subject, body, path); err != nil {
		s.logger.Error("failed to email roster", "roster_id", id, "error", err)
		return err
	}

	s.logger.Info("roster emailed", "roster_id", id, "recipients", len(recipients))
	return nil
}
