package auth

// Account is a login identity. Accounts are stored in their own sealed
// collection, separate from the employee directory.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	AccessLevel  string `json:"accessLevel"`
	EmployeeID   string `json:"employeeId,omitempty"`
}

// UserContext is the resolved identity of a request.
type UserContext struct {
	AccountID     string `json:"accountId,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role"`
	EmployeeID    string `json:"employeeId,omitempty"`
	Authenticated bool   `json:"authenticated"`
}
