package recordstore

// Fixed storage keys. Collection keys hold a serialized array; the remaining
// keys hold single values.
const (
	KeyEmployees   = "db_employees"
	KeyTasks       = "db_tasks"
	KeyTickets     = "db_tickets"
	KeyMessages    = "db_messages"
	KeyPayroll     = "db_payroll"
	KeyLeave       = "db_leave"
	KeyHolidays    = "db_holidays"
	KeyInvoices    = "db_invoices"
	KeyMeetings    = "db_meetings"
	KeyPosts       = "db_posts"
	KeyAccounts    = "db_accounts"
	KeyAuditEvents = "db_audit_events"
	KeyJobRuns     = "db_job_runs"
	KeyIdempotency = "db_idempotency_keys"

	KeyInitialized       = "db_initialized"
	KeyAttendanceSession = "db_attendance_session"
	KeyCurrentRole       = "db_current_role"
)

// Collections lists every collection key, in seed order.
var Collections = []string{
	KeyEmployees,
	KeyTasks,
	KeyTickets,
	KeyMessages,
	KeyPayroll,
	KeyLeave,
	KeyHolidays,
	KeyInvoices,
	KeyMeetings,
	KeyPosts,
	KeyAccounts,
	KeyAuditEvents,
	KeyJobRuns,
	KeyIdempotency,
}

// SensitiveKeys are sealed at rest when an encryption key is configured.
// Idempotency entries hold replayed payroll responses.
var SensitiveKeys = []string{KeyPayroll, KeyAccounts, KeyIdempotency}

func allKeys() []string {
	keys := make([]string, 0, len(Collections)+3)
	keys = append(keys, Collections...)
	return append(keys, KeyAttendanceSession, KeyCurrentRole, KeyInitialized)
}
