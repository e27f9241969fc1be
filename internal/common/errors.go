package common

import (
	"errors"
	"net/http"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound          = errors.New("requested resource not found")
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrForbidden         = errors.New("forbidden access")
	ErrConflict          = errors.New("resource conflict")
	ErrInvalidAssignment = errors.New("question is not assigned to this team")
	ErrLimitReached      = errors.New("submission limit reached")
	ErrTeamBusy          = errors.New("another request for this team is in progress")
	ErrNoEligiblePool    = errors.New("no eligible question available")
	ErrNoTestCases       = errors.New("no test cases found for this question")
	ErrJudgeTimeout      = errors.New("judge execution timed out")
	ErrJudgeUnavailable  = errors.New("judge service unavailable")
)

const mysqlDuplicateEntry = 1062

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidAssignment):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict), errors.Is(err, ErrTeamBusy):
		return http.StatusConflict
	case errors.Is(err, ErrLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrJudgeTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrJudgeUnavailable):
		return http.StatusBadGateway
	}

	if IsDuplicateEntry(err) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// IsClientError reports whether err is the caller's fault and safe to echo back.
func IsClientError(err error) bool {
	status := HTTPStatusFromError(err)
	return status >= 400 && status < 500
}

func IsDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
