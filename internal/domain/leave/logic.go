package leave

import (
	"fmt"
	"time"
)

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// DaysBetween parses two YYYY-MM-DD dates and counts the days inclusively.
func DaysBetween(startDate, endDate string) (int, error) {
	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return 0, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	end, err := time.Parse(time.DateOnly, endDate)
	if err != nil {
		return 0, fmt.Errorf("%w: end date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return CalculateDays(start, end)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validType(t string) bool {
	for _, rt := range RequestTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// CountPending counts requests awaiting a decision.
func CountPending(requests []Request) int {
	n := 0
	for _, r := range requests {
		if r.Status == StatusPending {
			n++
		}
	}
	return n
}

// Remaining subtracts the employee's approved days starting in year from each
// allowance. Balances may go negative.
func Remaining(requests []Request, employeeID string, year int) map[string]int {
	out := make(map[string]int, len(Allowances))
	for t, days := range Allowances {
		out[t] = days
	}
	for _, r := range requests {
		if r.EmployeeID != employeeID || r.Status != StatusApproved {
			continue
		}
		start, err := time.Parse(time.DateOnly, r.StartDate)
		if err != nil || start.Year() != year {
			continue
		}
		if _, ok := out[r.Type]; ok {
			out[r.Type] -= r.Days
		}
	}
	return out
}
