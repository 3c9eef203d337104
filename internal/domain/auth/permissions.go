package auth

const (
	RoleAdmin     = "Admin"
	RoleDeveloper = "Developer"
	RoleHRAdmin   = "HR-Admin"
	RoleUser      = "User"
)

var Roles = []string{RoleAdmin, RoleDeveloper, RoleHRAdmin, RoleUser}

const (
	ResourceEmployees  = "employees"
	ResourceTasks      = "tasks"
	ResourceTickets    = "tickets"
	ResourceMessages   = "messages"
	ResourceAttendance = "attendance"
	ResourcePayroll    = "payroll"
	ResourceLeave      = "leave"
	ResourceHolidays   = "holidays"
	ResourceInvoices   = "invoices"
	ResourceMeetings   = "meetings"
	ResourcePosts      = "posts"
	ResourceAudit      = "audit"
	ResourceJobs       = "jobs"
	ResourceDashboard  = "dashboard"
	ResourceAssistant  = "assistant"
	ResourcePrivacy    = "privacy"
)

const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionRun     = "run"
)

// Resources that non-managing roles may not read.
var restrictedReads = map[string]bool{
	ResourcePayroll: true,
	ResourceAudit:   true,
	ResourceJobs:    true,
	ResourcePrivacy: true,
}

// Resources that every signed-in role may write.
var sharedWrites = map[string]bool{
	ResourceTasks:      true,
	ResourceMessages:   true,
	ResourceAttendance: true,
	ResourceLeave:      true,
	ResourceMeetings:   true,
	ResourcePosts:      true,
}

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Evaluate is the single authorization policy for every role-gated action.
func Evaluate(role, resource, action string) Decision {
	switch role {
	case RoleAdmin, RoleHRAdmin:
		return allow()
	case RoleDeveloper, RoleUser:
	default:
		return deny("unknown role")
	}

	switch action {
	case ActionRead:
		if restrictedReads[resource] {
			return deny(resource + " is restricted to administrators")
		}
		return allow()
	case ActionWrite:
		if sharedWrites[resource] {
			return allow()
		}
	case ActionDelete:
		if resource == ResourceTasks && role == RoleDeveloper {
			return allow()
		}
	}
	return deny(action + " on " + resource + " requires Admin or HR-Admin")
}

// CanManage reports whether role holds the administrative capability set.
func CanManage(role string) bool {
	return role == RoleAdmin || role == RoleHRAdmin
}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
