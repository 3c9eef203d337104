package directory

const (
	StatusActive     = "Active"
	StatusOnLeave    = "On Leave"
	StatusTerminated = "Terminated"
)

var Statuses = []string{StatusActive, StatusOnLeave, StatusTerminated}

const (
	defaultPhone    = "+1 (555) 000-0000"
	defaultLocation = "Remote"
)

type Socials struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Employee struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	AccessLevel string   `json:"accessLevel,omitempty"`
	Department  string   `json:"department"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Avatar      string   `json:"avatar"`
	Status      string   `json:"status"`
	JoinedDate  string   `json:"joinedDate"`
	Location    string   `json:"location"`
	Socials     *Socials `json:"socials,omitempty"`
}
