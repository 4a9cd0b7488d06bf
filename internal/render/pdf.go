package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// renderPDF writes the canonical record as a single continuous paginated
// stream. Construction failures surface as an error with nothing returned;
// a partially written document is never handed back.
func renderPDF(rec rams.Record) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(documentTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, sec := range buildSections(rec) {
		pdf.SetFont("Helvetica", "U", 14)
		pdf.CellFormat(0, 8, tr(sec.heading), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		number := 0
		for _, it := range sec.items {
			switch it.kind {
			case itemLabeled:
				pdf.MultiCell(0, 5, tr(it.label+": "+it.text), "", "L", false)
			case itemNumbered:
				number++
				pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", number, it.text)), "", "L", false)
				if it.detail != "" {
					// MultiCell resets X to the left margin afterwards.
					pdf.SetX(pdf.GetX() + 8)
					pdf.MultiCell(0, 5, tr(it.detail), "", "L", false)
				}
			case itemBullet:
				pdf.MultiCell(0, 5, tr("- "+it.text), "", "L", false)
			default:
				pdf.MultiCell(0, 5, tr(it.text), "", "L", false)
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, renderErr("could not build PDF stream", err)
	}
	return buf.Bytes(), nil
}
