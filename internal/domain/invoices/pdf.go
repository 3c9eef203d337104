package invoices

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF writes a one page invoice document to w.
func RenderPDF(w io.Writer, inv Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Invoice "+inv.InvoiceNo)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", inv.Date))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bill to: %s", inv.Client))
	pdf.Ln(7)
	if inv.Description != "" {
		pdf.MultiCell(0, 8, inv.Description, "", "L", false)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Amount due: %.2f", inv.Amount))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", inv.Status))
	return pdf.Output(w)
}
