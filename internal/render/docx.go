package render

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// renderDocx writes the canonical record as a single-section flow document.
// It walks the same section list as the PDF renderer, so the two formats
// mirror each other exactly, including conditional omission of empty sections.
func renderDocx(rec rams.Record) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	title.AddText(documentTitle).Size("40").Bold()
	doc.AddParagraph()

	for _, sec := range buildSections(rec) {
		heading := doc.AddParagraph()
		heading.AddText(sec.heading).Size("28").Bold()

		number := 0
		for _, it := range sec.items {
			p := doc.AddParagraph()
			switch it.kind {
			case itemLabeled:
				p.AddText(it.label + ": ").Bold()
				p.AddText(it.text)
			case itemNumbered:
				number++
				text := fmt.Sprintf("%d. %s", number, it.text)
				if it.detail != "" {
					text += " (" + it.detail + ")"
				}
				p.AddText(text)
			case itemBullet:
				p.AddText("- " + it.text)
			default:
				p.AddText(it.text)
			}
		}
		doc.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, renderErr("could not build Word document", err)
	}
	return buf.Bytes(), nil
}
