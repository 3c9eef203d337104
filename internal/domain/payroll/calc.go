package payroll

import "time"

type InputLine struct {
	Type   string
	Amount float64
}

func ComputePayroll(baseSalary float64, inputs []InputLine) (gross, deductions, net float64) {
	gross = baseSalary
	for _, input := range inputs {
		switch input.Type {
		case ElementTypeEarning:
			gross += input.Amount
		case ElementTypeDeduction:
			deductions += input.Amount
		}
	}
	net = gross - deductions
	return gross, deductions, net
}

// ComputeNet is base + bonus - deductions.
func ComputeNet(baseSalary, bonus, deductions float64) float64 {
	_, _, net := ComputePayroll(baseSalary, []InputLine{
		{Type: ElementTypeEarning, Amount: bonus},
		{Type: ElementTypeDeduction, Amount: deductions},
	})
	return net
}

// MonthLabel formats the pay month the way records store it, e.g. "October 2023".
func MonthLabel(t time.Time) string {
	return t.Format(monthLayout)
}

func validStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}
