package staff_test

import (
	"database/sql"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbm "github.com/rosterly/roster-management/db"
	"github.com/rosterly/roster-management/internal/staff"
	staffSqlite "github.com/rosterly/roster-management/internal/staff/sqlite"
)

func TestStaff(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Staff Module Suite")
}

var _ = Describe("Staff Service Integration", func() {
	var (
		db      *gorm.DB
		service *staff.Service
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&staff.Staff{})
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = staff.NewService(staffSqlite.NewStaffRepository(db), lg)
	})

	It("creates an employee and lists alphabetically", func() {
		_, err := service.Create(staff.StaffDTO{Name: "Zoe Last"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(staff.StaffDTO{Name: "Adam First", Email: "adam@example.com"})
		Expect(err).NotTo(HaveOccurred())

		employees, err := service.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(employees).To(HaveLen(2))
		Expect(employees[0].Name).To(Equal("Adam First"))
		Expect(employees[1].Name).To(Equal("Zoe Last"))
	})

	It("requires a name and nothing else", func() {
		_, err := service.Create(staff.StaffDTO{Email: "no-name@example.com"})
		Expect(err).To(HaveOccurred())

		_, err = service.Create(staff.StaffDTO{Name: "Only Name"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores max hours and unavailable days as free text", func() {
		created, err := service.Create(staff.StaffDTO{
			Name:            "Flexible Worker",
			MaxHours:        "about 20",
			DaysUnavailable: "Mon,Wed",
		})
		Expect(err).NotTo(HaveOccurred())

		got, err := service.Get(created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.MaxHours).To(Equal("about 20"))
		Expect(got.DaysUnavailable).To(Equal("Mon,Wed"))
	})

	It("updates every field", func() {
		created, err := service.Create(staff.StaffDTO{Name: "Before"})
		Expect(err).NotTo(HaveOccurred())

		err = service.Update(created.ID, staff.StaffDTO{
			Name:            "After",
			Email:           "after@example.com",
			Phone:           "555-0101",
			MaxHours:        "38",
			DaysUnavailable: "Sun",
		})
		Expect(err).NotTo(HaveOccurred())

		got, err := service.Get(created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("After"))
		Expect(got.Email).To(Equal("after@example.com"))
		Expect(got.Phone).To(Equal("555-0101"))
	})

	It("deletes an employee", func() {
		created, err := service.Create(staff.StaffDTO{Name: "Leaving"})
		Expect(err).NotTo(HaveOccurred())

		Expect(service.Delete(created.ID)).To(Succeed())

		_, err = service.Get(created.ID)
		Expect(err).To(MatchError(staff.ErrStaffNotFound))
	})

	It("fails to update a missing employee", func() {
		err := service.Update(99, staff.StaffDTO{Name: "Ghost"})
		Expect(err).To(MatchError(staff.ErrStaffNotFound))
	})
})

// Runs against the real migrated schema instead of AutoMigrate: the
// ON DELETE CASCADE constraints only exist in the sql migrations.
var _ = Describe("Staff delete cascade", func() {
	var (
		sqlDB   *sql.DB
		gdb     *gorm.DB
		service *staff.Service
	)

	BeforeEach(func() {
		var err error
		sqlDB, err = sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		goose.SetBaseFS(dbm.Migrations)
		goose.SetTableName("schema_migrations")
		Expect(goose.SetDialect("sqlite3")).To(Succeed())
		Expect(goose.Up(sqlDB, "migrations")).To(Succeed())

		gdb, err = gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = staff.NewService(staffSqlite.NewStaffRepository(gdb), lg)
	})

	AfterEach(func() {
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("removes the employee's duty assignments with the row", func() {
		created, err := service.Create(staff.StaffDTO{Name: "On Duty"})
		Expect(err).NotTo(HaveOccurred())

		Expect(gdb.Exec(
			"INSERT INTO rosters (start_date, end_date, pdf_file) VALUES (?, ?, ?)",
			"2025-10-06", "2025-10-12", "roster_2025-10-06_2025-10-12.pdf",
		).Error).To(Succeed())
		Expect(gdb.Exec(
			"INSERT INTO roster_assignments (roster_id, employee_id, duty_date, start_time, end_time) VALUES (1, ?, ?, ?, ?)",
			created.ID, "2025-10-06", "09:00", "17:00",
		).Error).To(Succeed())

		Expect(service.Delete(created.ID)).To(Succeed())

		var remaining int64
		Expect(gdb.Raw(
			"SELECT COUNT(*) FROM roster_assignments WHERE employee_id = ?", created.ID,
		).Scan(&remaining).Error).To(Succeed())
		Expect(remaining).To(BeZero())

		// The roster header itself is untouched.
		var rosters int64
		Expect(gdb.Raw("SELECT COUNT(*) FROM rosters").Scan(&rosters).Error).To(Succeed())
		Expect(rosters).To(Equal(int64(1)))
	})
})

var _ = Describe("Day tokens", func() {
	It("joins checkbox values with commas", func() {
		Expect(staff.JoinDayTokens([]string{"Mon", "Fri"})).To(Equal("Mon,Fri"))
		Expect(staff.JoinDayTokens(nil)).To(Equal(""))
	})

	It("splits back the stored string", func() {
		Expect(staff.SplitDayTokens("Mon,Fri")).To(Equal([]string{"Mon", "Fri"}))
		Expect(staff.SplitDayTokens("")).To(BeNil())
	})
})
