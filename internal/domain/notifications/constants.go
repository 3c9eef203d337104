package notifications

const (
	TypeLeaveApproved    = "leave_approved"
	TypeLeaveRejected    = "leave_rejected"
	TypePayrollGenerated = "payroll_generated"
)
