package leave

import "time"

type Request struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Type         string    `json:"type"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	Days         int       `json:"days"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Holiday struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Type string `json:"type"`
}
