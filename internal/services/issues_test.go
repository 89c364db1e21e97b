package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFeedbackType(t *testing.T) {
	assert.True(t, ValidFeedbackType("light_on"))
	assert.True(t, ValidFeedbackType("light_off"))
	assert.True(t, ValidFeedbackType("gen_mode"))
	assert.True(t, ValidFeedbackType("inverter"))
	assert.False(t, ValidFeedbackType("candle_mode"))
	assert.False(t, ValidFeedbackType(""))
}

func TestValidProblemTypes(t *testing.T) {
	assert.True(t, ValidProblemTypes([]string{"no_power"}))
	assert.True(t, ValidProblemTypes([]string{"low_voltage", "frequent_tripping", "meter_issues"}))
	assert.True(t, ValidProblemTypes(nil))
	assert.False(t, ValidProblemTypes([]string{"no_power", "alien_invasion"}))
}
