package render

import (
	"bytes"
	"fmt"

	"product-intel/internal/compare"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// pdfRenderer implements Renderer with fpdf. Comparisons of more than three
// products switch to landscape so the columns stay readable.
type pdfRenderer struct {
	logger zerolog.Logger
}

// NewPDFRenderer creates a PDF renderer.
func NewPDFRenderer(logger zerolog.Logger) Renderer {
	return &pdfRenderer{
		logger: logger.With().Str("component", "pdf-renderer").Logger(),
	}
}

// Render lays the comparison table out on letter pages.
func (r *pdfRenderer) Render(t *compare.Table) ([]byte, error) {
	orientation := "P"
	if t.ProductCount > 3 {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, t.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, t.CategoryName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6,
		fmt.Sprintf("%d products from %d vendors, generated %s",
			t.ProductCount, t.VendorCount, t.GeneratedAt.Format("2006-01-02 15:04 UTC")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right
	labelWidth := usable * 0.22
	cellWidth := (usable - labelWidth) / float64(t.ProductCount)

	drawRow := func(label string, cells []string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelWidth, 7, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", style, 9)
		for _, cell := range cells {
			pdf.CellFormat(cellWidth, 7, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	drawRow("", t.Header, true)
	for _, row := range t.FixedRows {
		drawRow(row.Label, row.Cells, false)
	}
	for _, row := range t.AttributeRows {
		drawRow(row.Label, row.Cells, false)
	}

	if t.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, t.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error().Err(err).Msg("failed to render comparison PDF")
		return nil, fmt.Errorf("failed to render comparison PDF: %w", err)
	}

	r.logger.Debug().
		Int("bytes", buf.Len()).
		Str("orientation", orientation).
		Msg("comparison PDF rendered")

	return buf.Bytes(), nil
}
