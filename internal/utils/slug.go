package utils

import "strings"

// SanitizeZoneName turns a display name into a machine-safe zone slug:
// lowercased, symbols stripped, whitespace runs collapsed to a single
// underscore, capped at 50 characters.
// Example: "Magodo Phase 2!" → "magodo_phase_2".
func SanitizeZoneName(name string) string {
	lower := strings.ToLower(name)

	var sb strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			sb.WriteByte(' ')
		}
	}

	slug := strings.Join(strings.Fields(sb.String()), "_")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return slug
}
