package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestListIssuesRejectsUnknownProblemType(t *testing.T) {
	h := NewIssueHandler(nil, zap.NewNop())

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"single unknown type", "?problem_types=alien_invasion", http.StatusBadRequest},
		{"unknown mixed with valid", "?problem_types=no_power,alien_invasion", http.StatusBadRequest},
		{"repeated param with unknown", "?problem_types=no_power&problem_types=bad", http.StatusBadRequest},
		{"bad zone_id still caught first", "?zone_id=not-a-uuid&problem_types=bad", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/issues"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.ListIssues(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), "false")
		})
	}
}
