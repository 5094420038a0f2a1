package pdf

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPDF(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PDF Module Suite")
}

var _ = Describe("ShiftHours", func() {
	It("computes a plain daytime shift", func() {
		Expect(ShiftHours("09:00", "17:00")).To(Equal(8.0))
	})

	It("rolls an overnight shift into the next day", func() {
		Expect(ShiftHours("22:00", "02:00")).To(Equal(4.0))
	})

	It("treats identical start and end as a full day", func() {
		Expect(ShiftHours("09:00", "09:00")).To(Equal(24.0))
	})

	It("accepts times with seconds", func() {
		Expect(ShiftHours("09:00:00", "17:30:00")).To(Equal(8.5))
	})

	It("returns zero for unparseable times", func() {
		Expect(ShiftHours("morning", "17:00")).To(Equal(0.0))
		Expect(ShiftHours("", "")).To(Equal(0.0))
	})

	It("rounds to two decimals", func() {
		Expect(ShiftHours("09:00", "09:20")).To(Equal(0.33))
	})
})

var _ = Describe("AssignmentHours", func() {
	It("prefers the time range over the hours text", func() {
		a := AssignmentRow{StartTime: "08:00", EndTime: "12:00", Hours: "99"}
		Expect(AssignmentHours(a)).To(Equal(4.0))
	})

	It("falls back to the numeric hours field", func() {
		Expect(AssignmentHours(AssignmentRow{Hours: "7.5"})).To(Equal(7.5))
	})

	It("is zero when hours cannot be parsed", func() {
		Expect(AssignmentHours(AssignmentRow{Hours: "all day"})).To(Equal(0.0))
	})

	It("is zero when nothing is filled in", func() {
		Expect(AssignmentHours(AssignmentRow{})).To(Equal(0.0))
	})
})

var _ = Describe("DateRange", func() {
	It("is inclusive of both endpoints", func() {
		dates, err := DateRange("2025-10-06", "2025-10-12")
		Expect(err).NotTo(HaveOccurred())
		Expect(dates).To(HaveLen(7))
		Expect(dates[0]).To(Equal("2025-10-06"))
		Expect(dates[6]).To(Equal("2025-10-12"))
	})

	It("handles a single-day range", func() {
		dates, err := DateRange("2025-10-06", "2025-10-06")
		Expect(err).NotTo(HaveOccurred())
		Expect(dates).To(Equal([]string{"2025-10-06"}))
	})

	It("crosses month boundaries", func() {
		dates, err := DateRange("2025-01-30", "2025-02-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(dates).To(Equal([]string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}))
	})

	It("rejects malformed dates", func() {
		_, err := DateRange("06/10/2025", "2025-10-12")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Filename", func() {
	It("is deterministic for a date range", func() {
		Expect(Filename("2025-10-06", "2025-10-12")).To(Equal("roster_2025-10-06_2025-10-12.pdf"))
	})
})

var _ = Describe("ColumnHeader", func() {
	It("shows the weekday above the date", func() {
		Expect(ColumnHeader("2025-10-06")).To(Equal("Mon\n2025-10-06"))
	})

	It("falls back to the raw value when unparseable", func() {
		Expect(ColumnHeader("not-a-date")).To(Equal("not-a-date"))
	})
})

var _ = Describe("CellText", func() {
	It("shows the time range when both times are set", func() {
		text := CellText([]AssignmentRow{{StartTime: "09:00", EndTime: "17:00"}})
		Expect(text).To(Equal("09:00-17:00"))
	})

	It("shows the hours when times are missing", func() {
		text := CellText([]AssignmentRow{{Hours: "8"}})
		Expect(text).To(Equal("8h"))
	})

	It("prefixes the shift name and appends the note", func() {
		text := CellText([]AssignmentRow{{Shift: "Early", StartTime: "06:00", EndTime: "14:00", Note: "till stock"}})
		Expect(text).To(Equal("Early: 06:00-14:00 (till stock)"))
	})

	It("joins multiple duties with newlines", func() {
		text := CellText([]AssignmentRow{
			{StartTime: "06:00", EndTime: "10:00"},
			{StartTime: "18:00", EndTime: "22:00"},
		})
		Expect(text).To(Equal("06:00-10:00\n18:00-22:00"))
	})

	It("is empty for no assignments", func() {
		Expect(CellText(nil)).To(Equal(""))
	})
})

var _ = Describe("TotalHours", func() {
	It("sums every duty across the week", func() {
		byDate := map[string][]AssignmentRow{
			"2025-10-06": {{StartTime: "09:00", EndTime: "17:00"}},
			"2025-10-07": {{Hours: "4"}, {StartTime: "22:00", EndTime: "02:00"}},
		}
		Expect(TotalHours(byDate)).To(Equal(16.0))
	})

	It("is zero for an empty map", func() {
		Expect(TotalHours(nil)).To(Equal(0.0))
	})
})

var _ = Describe("IndexAssignments", func() {
	It("groups by employee then duty date preserving order", func() {
		rows := []AssignmentRow{
			{EmployeeID: 1, DutyDate: "2025-10-06", Hours: "4"},
			{EmployeeID: 1, DutyDate: "2025-10-06", Hours: "2"},
			{EmployeeID: 2, DutyDate: "2025-10-07", Hours: "8"},
		}
		index := IndexAssignments(rows)
		Expect(index).To(HaveLen(2))
		Expect(index[1]["2025-10-06"]).To(HaveLen(2))
		Expect(index[1]["2025-10-06"][0].Hours).To(Equal("4"))
		Expect(index[2]["2025-10-07"]).To(HaveLen(1))
	})
})
