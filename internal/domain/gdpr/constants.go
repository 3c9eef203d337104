package gdpr

// Dataset names in a data subject export.
const (
	DatasetLeaveRequests = "leaveRequests"
	DatasetPayroll       = "payroll"
	DatasetTasks         = "tasks"
	DatasetMeetings      = "meetings"
	DatasetPosts         = "posts"
	DatasetMessages      = "messages"
	DatasetAuditEvents   = "auditEvents"
)

const (
	AnonymizedName   = "Anonymized Employee"
	AnonymizedAvatar = "https://ui-avatars.com/api/?name=Anonymized&background=random"
	// RedactedContent replaces the body of posts and messages.
	RedactedContent = "[removed]"
)
