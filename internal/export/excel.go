package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rosterly/roster-management/internal/pdf"
)

// ExcelExporter renders the same duty matrix the PDF shows as an XLSX
// workbook, for managers who want to keep editing in a spreadsheet.
type ExcelExporter struct {
	reader pdf.Reader
	logger *slog.Logger
}

func NewExcelExporter(reader pdf.Reader, logger *slog.Logger) *ExcelExporter {
	return &ExcelExporter{reader: reader, logger: logger.With("component", "excel_exporter")}
}

const sheetName = "Roster"

// Build assembles the workbook in memory and returns it with its filename.
func (e *ExcelExporter) Build(rosterID int64) (*bytes.Buffer, string, error) {
	meta, err := e.reader.RosterMeta(rosterID)
	if err != nil {
		return nil, "", err
	}
	employees, err := e.reader.StaffByName()
	if err != nil {
		return nil, "", err
	}
	assignments, err := e.reader.Assignments(rosterID)
	if err != nil {
		return nil, "", err
	}
	companyName, departmentName, err := e.reader.CompanyInfo()
	if err != nil {
		return nil, "", err
	}
	dates, err := pdf.DateRange(meta.StartDate, meta.EndDate)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, "", err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return nil, "", err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, "", err
	}

	f.SetCellValue(sheetName, "A1", companyName)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", departmentName)
	f.SetCellValue(sheetName, "A3", fmt.Sprintf("Roster Period: %s - %s", meta.StartDate, meta.EndDate))

	const headerRow = 5
	f.SetCellValue(sheetName, cellRef(0, headerRow), "Employee")
	for i, date := range dates {
		f.SetCellValue(sheetName, cellRef(i+1, headerRow), strings.ReplaceAll(pdf.ColumnHeader(date), "\n", " "))
	}
	f.SetCellValue(sheetName, cellRef(len(dates)+1, headerRow), "Total Hours")
	f.SetCellStyle(sheetName, cellRef(0, headerRow), cellRef(len(dates)+1, headerRow), headerStyle)

	byEmployee := pdf.IndexAssignments(assignments)
	row := headerRow + 1
	for _, member := range employees {
		byDate := byEmployee[member.ID]
		f.SetCellValue(sheetName, cellRef(0, row), member.Name)
		for i, date := range dates {
			f.SetCellValue(sheetName, cellRef(i+1, row), pdf.CellText(byDate[date]))
		}
		f.SetCellValue(sheetName, cellRef(len(dates)+1, row), pdf.TotalHours(byDate))
		f.SetCellStyle(sheetName, cellRef(0, row), cellRef(len(dates), row), cellStyle)
		row++
	}

	if err := f.SetColWidth(sheetName, "A", "A", 30); err != nil {
		return nil, "", err
	}
	lastCol, err := excelize.ColumnNumberToName(len(dates) + 2)
	if err != nil {
		return nil, "", err
	}
	if err := f.SetColWidth(sheetName, "B", lastCol, 18); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("roster_%s_%s.xlsx", meta.StartDate, meta.EndDate)
	e.logger.Info("workbook built", "roster_id", rosterID, "filename", filename)
	return buf, filename, nil
}

// cellRef maps zero-based column and one-based row to an A1 reference.
func cellRef(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return ""
	}
	return name
}
