package payroll

import "workflowpro/internal/domain/directory"

type Record struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	BaseSalary float64 `json:"baseSalary"`
	Bonus      float64 `json:"bonus"`
	Deductions float64 `json:"deductions"`
	NetPay     float64 `json:"netPay"`
	Status     string  `json:"status"`
	Month      string  `json:"month"`
}

// Line is a record joined with its employee. Employee is nil when the
// employee no longer exists.
type Line struct {
	Record
	Employee *directory.Employee `json:"employee,omitempty"`
}
