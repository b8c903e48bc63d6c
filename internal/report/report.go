// Package report renders finished scans for export: machine-readable JSON
// and a printable PDF.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/raysh454/siteaudit/internal/model"
)

// WriteJSON renders the scan as indented JSON.
func WriteJSON(w io.Writer, result model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("report: encoding json: %w", err)
	}
	return nil
}

// WritePDF renders the scan as a single A4 document: headline scores, then
// one section per category with its checks, then the recommendation list.
func WritePDF(w io.Writer, result model.ScanResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Website Audit Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("URL: %s", result.URL), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Scanned: %s", result.Date.Format("2006-01-02 15:04:05 MST")), "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Scores", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Security: %d | Performance: %d | SEO: %d | Accessibility: %d",
		result.Security.Score, result.Performance.Score, result.SEO.Score, result.Accessibility.Score),
		"", 1, "", false, 0, "")
	pdf.Ln(4)

	writeCategory(pdf, "Security", result.Security)
	writePerformance(pdf, result.Performance)
	writeCategory(pdf, "SEO", result.SEO)
	writeCategory(pdf, "Accessibility", result.Accessibility)

	if len(result.Recommendations) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Recommendations", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for i, rec := range result.Recommendations {
			pdf.MultiCell(0, 5, fmt.Sprintf("%d. %s", i+1, rec), "", "", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: writing pdf: %w", err)
	}
	return nil
}

func writeCategory(pdf *gofpdf.Fpdf, title string, cat model.CategoryReport) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s - %d/100", title, cat.Score), "", 1, "", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, check := range cat.Checks {
		pdf.MultiCell(0, 5, fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(check.Status)), check.Name, check.Description), "", "", false)
	}
	if len(cat.Issues) > 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d issue(s) found", len(cat.Issues)), "", 1, "", false, 0, "")
	}
	pdf.Ln(3)
}

func writePerformance(pdf *gofpdf.Fpdf, perf model.PerformanceReport) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 7, fmt.Sprintf("Performance - %d/100", perf.Score), "", 1, "", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, m := range perf.Metrics {
		pdf.CellFormat(0, 5, fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(m.Status)), m.Name, m.Value), "", 1, "", false, 0, "")
	}
	pdf.Ln(3)
}
