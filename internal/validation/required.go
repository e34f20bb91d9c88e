package validation

import "strings"

// Field is a named input value checked for presence.
type Field struct {
	Name  string
	Value string
}

// Missing returns the names of fields whose value is blank, in order.
func Missing(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
