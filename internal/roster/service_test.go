package roster

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rosterly/roster-management/internal/company"
)

func TestRoster(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Roster Module Suite")
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type mockRepository struct {
	rosters     map[int64]*Roster
	assignments map[int64][]*Assignment
	nextID      int64

	createCalls int
	updateCalls int
	failCreate  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		rosters:     make(map[int64]*Roster),
		assignments: make(map[int64][]*Assignment),
		nextID:      1,
	}
}

func (m *mockRepository) ListByCreated() ([]*Roster, error) {
	var out []*Roster
	for _, r := range m.rosters {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRepository) Recent(limit int) ([]*Roster, error) {
	all, _ := m.ListByCreated()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockRepository) GetByID(id int64) (*Roster, error) {
	r, ok := m.rosters[id]
	if !ok {
		return nil, ErrRosterNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRepository) CreateWithAssignments(r *Roster, assignments []*Assignment) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.createCalls++
	r.ID = m.nextID
	m.nextID++
	m.rosters[r.ID] = r
	m.assignments[r.ID] = assignments
	return nil
}

func (m *mockRepository) UpdateWithAssignments(r *Roster, assignments []*Assignment) error {
	m.updateCalls++
	m.rosters[r.ID] = r
	m.assignments[r.ID] = assignments
	return nil
}

func (m *mockRepository) AssignmentsByRoster(rosterID int64) ([]*Assignment, error) {
	return m.assignments[rosterID], nil
}

func (m *mockRepository) Delete(id int64) error {
	delete(m.rosters, id)
	delete(m.assignments, id)
	return nil
}

type mockCompanyRepository struct {
	info        company.Info
	upsertCalls int
}

func newMockCompanyRepository() *mockCompanyRepository {
	return &mockCompanyRepository{
		info: company.Info{
			ID:             company.WellKnownID,
			CompanyName:    company.DefaultCompanyName,
			DepartmentName: company.DefaultDepartmentName,
		},
	}
}

func (m *mockCompanyRepository) Get() (*company.Info, error) {
	copied := m.info
	return &copied, nil
}

func (m *mockCompanyRepository) Upsert(companyName, departmentName string) error {
	m.upsertCalls++
	m.info.CompanyName = companyName
	m.info.DepartmentName = departmentName
	return nil
}

type mockPDFGenerator struct {
	calls    []int64
	filename string
	err      error
}

func (m *mockPDFGenerator) Generate(rosterID int64) (string, error) {
	m.calls = append(m.calls, rosterID)
	return m.filename, m.err
}

type mockMailer struct {
	recipients []string
	subject    string
	attachment string
	err        error
}

func (m *mockMailer) SendRoster(recipients []string, subject, body, attachmentPath string) error {
	m.recipients = recipients
	m.subject = subject
	m.attachment = attachmentPath
	return m.err
}

var _ = Describe("Roster Service", func() {
	var (
		repo        *mockRepository
		companyRepo *mockCompanyRepository
		pdfGen      *mockPDFGenerator
		mailer      *mockMailer
		dir         string
		service     *Service
	)

	newService := func(withMailer bool) *Service {
		var m Mailer
		if withMailer {
			m = mailer
		}
		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		return NewService(repo, companyRepo, pdfGen, m, dir, lg)
	}

	BeforeEach(func() {
		repo = newMockRepository()
		companyRepo = newMockCompanyRepository()
		pdfGen = &mockPDFGenerator{filename: "roster_2025-10-06_2025-10-12.pdf"}
		mailer = &mockMailer{}
		dir = GinkgoT().TempDir()
		service = newService(false)
	})

	Describe("Save", func() {
		It("derives the end date as start plus six days when absent", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())
			Expect(rst.EndDate).To(Equal("2025-10-12"))
			Expect(rst.PDFFile).To(Equal("roster_2025-10-06_2025-10-12.pdf"))
		})

		It("keeps an explicit end date untouched", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", EndDate: "2025-10-08", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())
			Expect(rst.EndDate).To(Equal("2025-10-08"))
		})

		It("rejects a missing start date before any write", func() {
			_, err := service.Save(SaveRosterDTO{AssignmentsJSON: "[]"})
			Expect(err).To(MatchError(ErrMissingStartDate))
			Expect(repo.createCalls).To(BeZero())
			Expect(companyRepo.upsertCalls).To(BeZero())
			Expect(pdfGen.calls).To(BeEmpty())
		})

		It("rejects an unparseable start date when the end is derived", func() {
			_, err := service.Save(SaveRosterDTO{StartDate: "06/10/2025", AssignmentsJSON: "[]"})
			Expect(err).To(MatchError(ErrInvalidDate))
			Expect(repo.createCalls).To(BeZero())
		})

		It("persists the submitted assignments", func() {
			payload := `[{"employee_id": 3, "duty_date": "2025-10-06", "start": "09:00", "end": "17:00", "shift": "Day", "note": "opening"}]`
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: payload})
			Expect(err).NotTo(HaveOccurred())

			saved := repo.assignments[rst.ID]
			Expect(saved).To(HaveLen(1))
			Expect(saved[0].EmployeeID).To(Equal(int64(3)))
			Expect(saved[0].StartTime).To(Equal("09:00"))
			Expect(saved[0].EndTime).To(Equal("17:00"))
			Expect(saved[0].Shift).To(Equal("Day"))
			Expect(saved[0].Note).To(Equal("opening"))
		})

		It("accepts the long start_time/end_time key names", func() {
			payload := `[{"employee_id": 3, "duty_date": "2025-10-06", "start_time": "10:00", "end_time": "18:00"}]`
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: payload})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.assignments[rst.ID][0].StartTime).To(Equal("10:00"))
			Expect(repo.assignments[rst.ID][0].EndTime).To(Equal("18:00"))
		})

		It("saves with no assignments when the payload is malformed", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "{not json"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.assignments[rst.ID]).To(BeEmpty())
		})

		It("replaces the whole assignment set on edit", func() {
			first := `[{"employee_id": 1, "duty_date": "2025-10-06", "hours": "8"}, {"employee_id": 2, "duty_date": "2025-10-07", "hours": "4"}]`
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: first})
			Expect(err).NotTo(HaveOccurred())

			second := `[{"employee_id": 2, "duty_date": "2025-10-08", "hours": "6"}]`
			edited, err := service.Save(SaveRosterDTO{
				StartDate:       "2025-10-06",
				AssignmentsJSON: second,
				EditRosterID:    rst.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.ID).To(Equal(rst.ID))
			Expect(repo.updateCalls).To(Equal(1))

			saved := repo.assignments[rst.ID]
			Expect(saved).To(HaveLen(1))
			Expect(saved[0].EmployeeID).To(Equal(int64(2)))
			Expect(saved[0].DutyDate).To(Equal("2025-10-08"))
		})

		It("stamps edited_at only on edits", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())
			Expect(rst.EditedAt).To(BeNil())

			edited, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]", EditRosterID: rst.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.EditedAt).NotTo(BeNil())
		})

		It("refuses to edit a roster that does not exist", func() {
			_, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]", EditRosterID: 99})
			Expect(err).To(MatchError(ErrRosterNotFound))
		})

		It("updates the company header, keeping stored text for blank fields", func() {
			_, err := service.Save(SaveRosterDTO{
				StartDate:       "2025-10-06",
				AssignmentsJSON: "[]",
				CompanyName:     "Acme Retail",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(companyRepo.info.CompanyName).To(Equal("Acme Retail"))
			Expect(companyRepo.info.DepartmentName).To(Equal(company.DefaultDepartmentName))
		})

		It("triggers PDF generation for the saved roster", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pdfGen.calls).To(Equal([]int64{rst.ID}))
		})

		It("surfaces storage failures", func() {
			repo.failCreate = errors.New("disk full")
			_, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).To(MatchError("disk full"))
		})
	})

	Describe("Delete", func() {
		It("removes the PDF file and the record", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())

			pdfPath := filepath.Join(dir, rst.PDFFile)
			Expect(os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644)).To(Succeed())

			Expect(service.Delete(rst.ID)).To(Succeed())
			_, err = os.Stat(pdfPath)
			Expect(os.IsNotExist(err)).To(BeTrue())
			_, err = service.Get(rst.ID)
			Expect(err).To(MatchError(ErrRosterNotFound))
		})

		It("still deletes the record when the PDF is already gone", func() {
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Delete(rst.ID)).To(Succeed())
		})

		It("fails for an unknown roster", func() {
			Expect(service.Delete(42)).To(MatchError(ErrRosterNotFound))
		})
	})

	Describe("LoadPayload", func() {
		It("returns the meta object first, then short-keyed assignments", func() {
			payload := `[{"employee_id": 1, "duty_date": "2025-10-06", "start": "09:00", "end": "17:00"}]`
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: payload})
			Expect(err).NotTo(HaveOccurred())

			loaded, err := service.LoadPayload(rst.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(HaveLen(2))

			meta, ok := loaded[0]["meta"].(map[string]interface{})
			Expect(ok).To(BeTrue())
			Expect(meta["roster_id"]).To(Equal(rst.ID))
			Expect(meta["start_date"]).To(Equal("2025-10-06"))
			Expect(meta["end_date"]).To(Equal("2025-10-12"))

			Expect(loaded[1]["start"]).To(Equal("09:00"))
			Expect(loaded[1]["end"]).To(Equal("17:00"))
		})

		It("round-trips through a resubmission unchanged", func() {
			payload := `[{"employee_id": 1, "duty_date": "2025-10-06", "start": "09:00", "end": "17:00", "shift": "Day"}]`
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: payload})
			Expect(err).NotTo(HaveOccurred())
			before := repo.assignments[rst.ID]

			loaded, err := service.LoadPayload(rst.ID)
			Expect(err).NotTo(HaveOccurred())

			dtos := ParseAssignments(mustJSON(loaded[1:]))
			Expect(dtos).To(HaveLen(1))

			_, err = service.Save(SaveRosterDTO{
				StartDate:       rst.StartDate,
				EndDate:         rst.EndDate,
				AssignmentsJSON: mustJSON(loaded[1:]),
				EditRosterID:    rst.ID,
			})
			Expect(err).NotTo(HaveOccurred())

			after := repo.assignments[rst.ID]
			Expect(after).To(HaveLen(len(before)))
			Expect(after[0].StartTime).To(Equal(before[0].StartTime))
			Expect(after[0].EndTime).To(Equal(before[0].EndTime))
			Expect(after[0].Shift).To(Equal(before[0].Shift))
		})
	})

	Describe("EmailRoster", func() {
		It("fails fast when no mailer is configured", func() {
			err := service.EmailRoster(1, []string{"a@example.com"})
			Expect(err).To(MatchError(ErrMailNotConfigured))
		})

		It("sends the PDF to the given recipients", func() {
			service = newService(true)
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())
			pdfPath := filepath.Join(dir, rst.PDFFile)
			Expect(os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644)).To(Succeed())

			Expect(service.EmailRoster(rst.ID, []string{"a@example.com", "b@example.com"})).To(Succeed())
			Expect(mailer.recipients).To(HaveLen(2))
			Expect(mailer.subject).To(Equal("Roster 2025-10-06 - 2025-10-12"))
			Expect(mailer.attachment).To(Equal(pdfPath))
		})

		It("refuses when the PDF is missing on disk", func() {
			service = newService(true)
			rst, err := service.Save(SaveRosterDTO{StartDate: "2025-10-06", AssignmentsJSON: "[]"})
			Expect(err).NotTo(HaveOccurred())

			err = service.EmailRoster(rst.ID, []string{"a@example.com"})
			Expect(err).To(MatchError(ErrPDFNotFound))
		})
	})
})
