package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, http.StatusOK},
		{"NotFound", fmt.Errorf("team 7: %w", ErrNotFound), http.StatusNotFound},
		{"InvalidAssignment", ErrInvalidAssignment, http.StatusBadRequest},
		{"Validation", fmt.Errorf("team_name: %w", ErrValidation), http.StatusBadRequest},
		{"LimitReached", fmt.Errorf("10/10: %w", ErrLimitReached), http.StatusTooManyRequests},
		{"InProgress", ErrTeamBusy, http.StatusConflict},
		{"JudgeTimeout", fmt.Errorf("evaluate: %w", ErrJudgeTimeout), http.StatusGatewayTimeout},
		{"JudgeUnavailable", ErrJudgeUnavailable, http.StatusBadGateway},
		{"NoEligiblePool", ErrNoEligiblePool, http.StatusInternalServerError},
		{"DuplicateEntry", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), http.StatusConflict},
		{"Unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromError(tt.err))
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrLimitReached))
	assert.False(t, IsClientError(ErrJudgeTimeout))
	assert.False(t, IsClientError(errors.New("boom")))
}
