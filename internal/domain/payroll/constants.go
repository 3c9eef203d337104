package payroll

const (
	StatusDraft    = "Draft"
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusPaid     = "Paid"

	ElementTypeEarning   = "earning"
	ElementTypeDeduction = "deduction"

	monthLayout = "January 2006"
)

// Ranges for generated figures: value = min + rand[0, spread).
const (
	baseSalaryMin    = 5000
	baseSalarySpread = 2000
	bonusSpread      = 500
	deductionsMin    = 800
	deductionsSpread = 200
)
