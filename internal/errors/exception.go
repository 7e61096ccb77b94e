package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict
	}

	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}

	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
