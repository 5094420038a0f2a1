package pdf

import (
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeReader struct {
	meta        *RosterMeta
	staff       []StaffRow
	assignments []AssignmentRow
	metaErr     error
}

func (f *fakeReader) RosterMeta(rosterID int64) (*RosterMeta, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeReader) StaffByName() ([]StaffRow, error)            { return f.staff, nil }
func (f *fakeReader) Assignments(rosterID int64) ([]AssignmentRow, error) { return f.assignments, nil }
func (f *fakeReader) CompanyInfo() (string, string, error) {
	return "Acme Retail", "Front of House", nil
}

var _ = Describe("Generator", func() {
	var (
		dir    string
		reader *fakeReader
		gen    *Generator
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		reader = &fakeReader{
			meta: &RosterMeta{
				ID:        1,
				StartDate: "2025-10-06",
				EndDate:   "2025-10-12",
				CreatedAt: "2025-10-01 09:00:00",
			},
			staff: []StaffRow{
				{ID: 1, Name: "Alice Baker"},
				{ID: 2, Name: "Bob Cook"},
			},
			assignments: []AssignmentRow{
				{EmployeeID: 1, DutyDate: "2025-10-06", StartTime: "09:00", EndTime: "17:00"},
				{EmployeeID: 2, DutyDate: "2025-10-07", Shift: "Late", Hours: "6", Note: "cover"},
			},
		}
		gen = NewGenerator(reader, dir, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("writes the PDF under the deterministic filename", func() {
		filename, err := gen.Generate(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(filename).To(Equal("roster_2025-10-06_2025-10-12.pdf"))

		info, err := os.Stat(filepath.Join(dir, filename))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})

	It("overwrites the file for the same date range", func() {
		first, err := gen.Generate(1)
		Expect(err).NotTo(HaveOccurred())
		second, err := gen.Generate(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("propagates the not-found error", func() {
		reader.metaErr = ErrRosterNotFound
		_, err := gen.Generate(42)
		Expect(err).To(MatchError(ErrRosterNotFound))
	})

	It("renders rosters with no staff at all", func() {
		reader.staff = nil
		reader.assignments = nil
		filename, err := gen.Generate(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(filename).To(Equal("roster_2025-10-06_2025-10-12.pdf"))
	})
})
