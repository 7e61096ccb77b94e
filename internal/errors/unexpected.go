package errors

import "net/http"

var ErrUnexpected = &Exception{
	Code:       "INTERNAL_SERVER_ERROR",
	Message:    "An unexpected error occurred. Please try again later.",
	StatusCode: http.StatusInternalServerError,
}
