package pdf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	employeeColWidth = 55.0
	minDateColWidth  = 16.0
	matrixLineHeight = 3.5
	cellPadding      = 1.0
)

// Generator renders rosters to PDF files in the configured directory. It is
// a pure read: the database state for a roster id in, one file out.
type Generator struct {
	reader Reader
	dir    string
	logger *slog.Logger
}

func NewGenerator(reader Reader, dir string, logger *slog.Logger) *Generator {
	return &Generator{reader: reader, dir: dir, logger: logger}
}

// Generate renders the roster and writes roster_{start}_{end}.pdf into the
// rosters directory, creating the directory if missing. Returns the filename.
func (g *Generator) Generate(rosterID int64) (string, error) {
	meta, err := g.reader.RosterMeta(rosterID)
	if err != nil {
		return "", err
	}

	companyName, departmentName, err := g.reader.CompanyInfo()
	if err != nil {
		return "", err
	}

	staffRows, err := g.reader.StaffByName()
	if err != nil {
		return "", err
	}

	assignments, err := g.reader.Assignments(rosterID)
	if err != nil {
		return "", err
	}

	dates, err := DateRange(meta.StartDate, meta.EndDate)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create rosters dir: %w", err)
	}

	filename := Filename(meta.StartDate, meta.EndDate)
	path := filepath.Join(g.dir, filename)

	doc := g.render(meta, companyName, departmentName, staffRows, dates, IndexAssignments(assignments))
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	g.logger.Info("roster pdf generated",
		"roster_id", rosterID,
		"file", filename,
		"employees", len(staffRows),
		"days", len(dates))

	return filename, nil
}

func (g *Generator) render(meta *RosterMeta, companyName, departmentName string, staffRows []StaffRow, dates []string, index map[int64]map[string][]AssignmentRow) *fpdf.Fpdf {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetMargins(12, 12, 12)
	doc.SetAutoPageBreak(false, 12)
	doc.AddPage()

	g.renderHeader(doc, meta, companyName, departmentName)

	pageW, pageH := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	bottomLimit := pageH - 12

	usable := pageW - left - right
	dateColWidth := (usable - employeeColWidth) / float64(max(len(dates), 1))
	if dateColWidth < minDateColWidth {
		dateColWidth = minDateColWidth
	}

	headerRow := func() {
		doc.SetFont("Helvetica", "B", 8)
		y := doc.GetY()
		g.drawCell(doc, left, y, employeeColWidth, 2*matrixLineHeight+2*cellPadding, "Employee")
		x := left + employeeColWidth
		for _, d := range dates {
			g.drawCell(doc, x, y, dateColWidth, 2*matrixLineHeight+2*cellPadding, ColumnHeader(d))
			x += dateColWidth
		}
		doc.SetY(y + 2*matrixLineHeight + 2*cellPadding)
	}
	headerRow()

	doc.SetFont("Helvetica", "", 7)
	for _, member := range staffRows {
		byDate := index[member.ID]

		cells := make([]string, 0, len(dates)+1)
		cells = append(cells, member.Name)
		for _, d := range dates {
			cells = append(cells, CellText(byDate[d]))
		}

		// Row height follows the tallest cell after width-wrapping.
		maxLines := 1
		widths := make([]float64, len(cells))
		widths[0] = employeeColWidth
		for i := 1; i < len(widths); i++ {
			widths[i] = dateColWidth
		}
		for i, text := range cells {
			if n := g.lineCount(doc, text, widths[i]); n > maxLines {
				maxLines = n
			}
		}
		rowHeight := float64(maxLines)*matrixLineHeight + 2*cellPadding

		if doc.GetY()+rowHeight > bottomLimit {
			doc.AddPage()
			headerRow()
			doc.SetFont("Helvetica", "", 7)
		}

		y := doc.GetY()
		x := left
		for i, text := range cells {
			g.drawCell(doc, x, y, widths[i], rowHeight, text)
			x += widths[i]
		}
		doc.SetY(y + rowHeight)
	}

	g.renderTotals(doc, staffRows, index, left, bottomLimit)

	return doc
}

func (g *Generator) renderHeader(doc *fpdf.Fpdf, meta *RosterMeta, companyName, departmentName string) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 8, companyName, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "Department: "+departmentName, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, fmt.Sprintf("Roster Period: %s - %s", meta.StartDate, meta.EndDate), "", 1, "L", false, 0, "")
	if meta.CreatedAt != "" {
		doc.CellFormat(0, 5, "Created on: "+meta.CreatedAt, "", 1, "L", false, 0, "")
	}
	if meta.EditedAt != nil && *meta.EditedAt != "" {
		doc.CellFormat(0, 5, "Edited on: "+*meta.EditedAt, "", 1, "L", false, 0, "")
	}
	doc.Ln(3)
}

func (g *Generator) renderTotals(doc *fpdf.Fpdf, staffRows []StaffRow, index map[int64]map[string][]AssignmentRow, left, bottomLimit float64) {
	const nameW, hoursW, rowH = 90.0, 30.0, 6.0

	// heading plus header row plus at least one data row
	if doc.GetY()+4+3*rowH > bottomLimit {
		doc.AddPage()
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, "Weekly Totals", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 9)
	doc.SetX(left)
	doc.CellFormat(nameW, rowH, "Employee", "1", 0, "L", false, 0, "")
	doc.CellFormat(hoursW, rowH, "Total Hours", "1", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	for _, member := range staffRows {
		if doc.GetY()+rowH > bottomLimit {
			doc.AddPage()
		}
		doc.SetX(left)
		doc.CellFormat(nameW, rowH, member.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(hoursW, rowH, fmt.Sprintf("%.2f", TotalHours(index[member.ID])), "1", 1, "R", false, 0, "")
	}
}

// drawCell draws a bordered cell and fills it with width-wrapped text,
// top-aligned the way table layouts expect.
func (g *Generator) drawCell(doc *fpdf.Fpdf, x, y, w, h float64, text string) {
	doc.Rect(x, y, w, h, "D")
	lines := g.wrap(doc, text, w)
	ly := y + cellPadding
	for _, line := range lines {
		if ly+matrixLineHeight > y+h {
			break
		}
		doc.SetXY(x+cellPadding, ly)
		doc.CellFormat(w-2*cellPadding, matrixLineHeight, line, "", 0, "L", false, 0, "")
		ly += matrixLineHeight
	}
}

func (g *Generator) wrap(doc *fpdf.Fpdf, text string, w float64) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, doc.SplitText(line, w-2*cellPadding)...)
	}
	return out
}

func (g *Generator) lineCount(doc *fpdf.Fpdf, text string, w float64) int {
	return len(g.wrap(doc, text, w))
}
