package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 40.0
	pdfTitleY     = 48.0
	pdfTableTop   = 84.0
	pdfHeaderH    = 22.0
	pdfRowH       = 18.0
	pdfFooterYOff = -28.0
)

// GeneratePDF parses CSV text (as produced by the generators in this
// package) and renders it as a paginated portrait table document:
// title at a fixed top offset, striped table below, footer with
// generation date and page count on every page. Fails with
// ErrNoReportData when the CSV has no header or no data rows.
func GeneratePDF(csvText, title string) ([]byte, error) {
	header, rows, err := ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 || len(rows) == 0 {
		return nil, ErrNoReportData
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfTableTop, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AliasNbPages("")

	generated := time.Now().Format("2006-01-02")
	pdf.SetFooterFunc(func() {
		pdf.SetY(pdfFooterYOff)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("Generated on %s", generated)
		pdf.CellFormat(0, 12, footer, "", 0, "L", false, 0, "")
		pageLabel := fmt.Sprintf("Page %d of {nb}", pdf.PageNo())
		pdf.SetX(-pdfMargin - 100)
		pdf.CellFormat(100, 12, pageLabel, "", 0, "R", false, 0, "")
	})

	pageWidth, pageHeight := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pdfMargin) / float64(len(header))

	pdf.AddPage()

	pdf.SetY(pdfTitleY)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(33, 33, 33)
	pdf.CellFormat(0, 20, title, "", 1, "L", false, 0, "")

	pdf.SetY(pdfTableTop)
	writeTableHeader(pdf, header, colWidth)

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		// Repeat the column header after an automatic page break.
		if pdf.GetY()+pdfRowH > pageHeight-pdfMargin {
			pdf.AddPage()
			writeTableHeader(pdf, header, colWidth)
			pdf.SetFont("Helvetica", "", 9)
		}

		if i%2 == 1 {
			pdf.SetFillColor(240, 243, 248)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(33, 33, 33)
		for col := 0; col < len(header); col++ {
			text := ""
			if col < len(row) {
				text = row[col]
			}
			text = truncateToWidth(pdf, text, colWidth-8)
			pdf.CellFormat(colWidth, pdfRowH, text, "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTableHeader(pdf *gofpdf.Fpdf, header []string, colWidth float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	for _, cell := range header {
		cell = truncateToWidth(pdf, cell, colWidth-8)
		pdf.CellFormat(colWidth, pdfHeaderH, cell, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// truncateToWidth shortens cell text to fit its column, appending an
// ellipsis when anything was cut.
func truncateToWidth(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
