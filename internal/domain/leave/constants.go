package leave

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"

	TypeSick     = "Sick"
	TypeCasual   = "Casual"
	TypeVacation = "Vacation"

	HolidayNational   = "National"
	HolidayObservance = "Observance"
)

var RequestTypes = []string{TypeSick, TypeCasual, TypeVacation}

// Allowances are the yearly day entitlements per request type.
var Allowances = map[string]int{
	TypeCasual:   12,
	TypeSick:     5,
	TypeVacation: 14,
}
