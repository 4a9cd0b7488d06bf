package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// renderXLSX produces a hazard risk-register workbook for the record: one row
// per hazard with its resolved risk level and controls.
func renderXLSX(rec rams.Record) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Risk Register"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, renderErr("could not build workbook", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"#",
		"Hazard",
		"Risk Level",
		"Affected Persons",
		"Consequences",
		"Controls",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i, h := range rec.Hazards {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, i+1)
		write(2, h.Description)
		write(3, h.RiskLevel)
		write(4, h.AffectedPersons)
		write(5, h.Consequences)
		write(6, truncate(strings.Join(h.Controls, "; "), 500))
		row++
	}

	// Summary block beneath the register.
	write := func(col, r int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, r)
		_ = f.SetCellValue(sheet, cell, v)
	}
	write(1, row+1, "Activity")
	write(2, row+1, rec.ActivityDescription)
	write(1, row+2, "Location")
	write(2, row+2, rec.Location)
	write(1, row+3, "Assessment Date")
	write(2, row+3, rec.AssessmentDate.Format("2006-01-02"))
	if rec.ResidualRisk != "" {
		write(1, row+4, "Residual Risk")
		write(2, row+4, rec.ResidualRisk)
	}

	_ = f.SetColWidth(sheet, "A", "A", 5)
	_ = f.SetColWidth(sheet, "B", "B", 48)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "E", 24)
	_ = f.SetColWidth(sheet, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderErr(fmt.Sprintf("xlsx write: %v", err), err)
	}
	return buf.Bytes(), nil
}

// truncate caps a cell value at n runes, never splitting a multi-byte
// character.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}
