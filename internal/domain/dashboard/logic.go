package dashboard

func EmployeeDashboard(leaveBalance map[string]int, assignedTasks, pendingRequests int) map[string]any {
	return map[string]any{
		"leaveBalance":    leaveBalance,
		"assignedTasks":   assignedTasks,
		"pendingRequests": pendingRequests,
	}
}

func ManagerDashboard(pendingApprovals, reviewTasks, draftPayroll int) map[string]any {
	return map[string]any{
		"pendingApprovals": pendingApprovals,
		"reviewTasks":      reviewTasks,
		"draftPayroll":     draftPayroll,
	}
}
