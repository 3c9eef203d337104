package directory

import (
	"net/url"
	"time"
)

// AvatarURL returns the generated initials avatar used for new employees.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// TenureYears is the calendar-year difference between the join date and now.
func TenureYears(joinedDate string, now time.Time) (int, error) {
	joined, err := time.Parse(time.DateOnly, joinedDate)
	if err != nil {
		return 0, err
	}
	return now.Year() - joined.Year(), nil
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}
