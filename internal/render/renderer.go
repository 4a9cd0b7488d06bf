package render

import (
	"fmt"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// Format selects an export format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type a byte consumer should serve the export
// with. Naming and transport stay the consumer's concern.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Render normalizes raw content and produces an in-memory document in the
// requested format. Both office formats are built from the same canonical
// record and the same section list.
func Render(raw rams.Content, format Format) ([]byte, error) {
	return RenderRecord(rams.Normalize(raw), format)
}

// RenderRecord renders an already-canonical record.
func RenderRecord(rec rams.Record, format Format) ([]byte, error) {
	switch format {
	case FormatPDF:
		return renderPDF(rec)
	case FormatDocx:
		return renderDocx(rec)
	case FormatXLSX:
		return renderXLSX(rec)
	default:
		return nil, common.NewAppError("RENDER_FAILED", fmt.Sprintf("unsupported format %q", format), common.ErrInvalidInput)
	}
}

// renderErr tags renderer failures with ErrRender so a caller can tell an
// export failure from a generation failure.
func renderErr(message string, cause error) error {
	return common.NewAppError("RENDER_FAILED", message, fmt.Errorf("%w: %w", common.ErrRender, cause))
}
