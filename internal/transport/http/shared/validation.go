package shared

import (
	"cmp"
	"net/http"
	"slices"
	"strings"
	"time"

	"workflowpro/internal/transport/http/api"
)

// FieldIssue is one entry of the validation_error details.
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues for a single request payload.
type Validator struct {
	issues []FieldIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	if reason = strings.TrimSpace(reason); reason == "" {
		return
	}
	v.issues = append(v.issues, FieldIssue{Field: strings.TrimSpace(field), Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// OneOf accepts an empty value; pair it with Required when the field is mandatory.
// Matching ignores case so "sick" passes for Sick.
func (v *Validator) OneOf(field, value string, allowed []string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, value) }) {
		return
	}
	v.Add(field, "must be one of "+joinChoices(allowed))
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	day, err := ParseDate(raw)
	if err != nil || day.IsZero() {
		v.Add(field, "must be a date formatted "+DateLayout)
		return time.Time{}, false
	}
	return day, true
}

// Clock checks an optional HH:MM value.
func (v *Validator) Clock(field, raw string) {
	if raw == "" {
		return
	}
	if _, err := time.Parse(ClockLayout, raw); err != nil {
		v.Add(field, "must be a time formatted HH:MM")
	}
}

// Range flags both ends when end falls before start.
func (v *Validator) Range(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() || !end.Before(start) {
		return
	}
	v.Add(startField, "must be on or before "+endField)
	v.Add(endField, "must be on or after "+startField)
}

func (v *Validator) Issues() []FieldIssue {
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b FieldIssue) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Reason, b.Reason))
	})
	return out
}

// Reject writes a 400 validation_error when any issue was collected.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if len(v.issues) == 0 {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": v.Issues()}, requestID)
	return true
}

func joinChoices(allowed []string) string {
	switch len(allowed) {
	case 0:
		return ""
	case 1:
		return allowed[0]
	}
	return strings.Join(allowed[:len(allowed)-1], ", ") + " or " + allowed[len(allowed)-1]
}
