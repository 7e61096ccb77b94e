package errors

import "net/http"

var ErrTaskIDRequired = &Exception{
	Code:       "VALIDATION_FAILED",
	Message:    "task id is required",
	StatusCode: http.StatusBadRequest,
}
