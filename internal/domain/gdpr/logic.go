package gdpr

import (
	"fmt"
	"maps"
)

func BuildDSARPayload(employee any, datasets map[string]any) map[string]any {
	payload := map[string]any{
		"employee": employee,
	}
	maps.Copy(payload, datasets)
	return payload
}

func AnonymizedEmail(employeeID string) string {
	return fmt.Sprintf("anonymized+%s@example.local", employeeID)
}
