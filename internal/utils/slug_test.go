package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeZoneName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Area", "test_area"},
		{"Magodo Phase 2", "magodo_phase_2"},
		{"Lekki Phase 1!", "lekki_phase_1"},
		{"  Surulere  ", "surulere"},
		{"Ikoyi/Obalende", "ikoyiobalende"},
		{"ÀJÀH", "jh"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeZoneName(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeZoneNameTruncates(t *testing.T) {
	long := strings.Repeat("a", 80)
	assert.Len(t, SanitizeZoneName(long), 50)
}

func TestParseQueryList(t *testing.T) {
	q := map[string][]string{
		"csv":      {"no_power, low_voltage"},
		"repeated": {"no_power", "low_voltage"},
	}

	assert.Equal(t, []string{"no_power", "low_voltage"}, ParseQueryList(q, "csv"))
	assert.Equal(t, []string{"no_power", "low_voltage"}, ParseQueryList(q, "repeated"))
	assert.Nil(t, ParseQueryList(q, "missing"))
}
