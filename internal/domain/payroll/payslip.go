package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"workflowpro/internal/domain/directory"
)

// RenderPayslip writes a payslip PDF for record to w. employee may be nil.
func RenderPayslip(w io.Writer, record Record, employee *directory.Employee) error {
	name, email, department := "Unknown employee", "", ""
	if employee != nil {
		name, email, department = employee.Name, employee.Email, employee.Department
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	if email != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Email: %s", email))
		pdf.Ln(7)
	}
	if department != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", department))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", record.Month))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.2f", record.BaseSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus: %.2f", record.Bonus))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", record.Deductions))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", record.NetPay))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", record.Status))
	return pdf.Output(w)
}
