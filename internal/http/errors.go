package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
)

// ErrorHandler renders every error returned by a handler or middleware as a
// structured body. Internal details never reach the client.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}

		var writeErr error
		if body == nil || c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

func render(err error) (int, any) {
	now := time.Now().UnixMilli()

	var (
		conflict *apperrors.ConflictError
		invalid  *apperrors.ValidationError
		appErr   *apperrors.Exception
		httpErr  *echo.HTTPError
	)

	switch {
	case errors.As(err, &conflict):
		return http.StatusConflict, dto.NewConflictResponse(conflict)

	case errors.As(err, &invalid):
		return http.StatusBadRequest, dto.ValidationResponse{
			Error:       "VALIDATION_FAILED",
			Message:     apperrors.ValidationMessage,
			FieldErrors: invalid.Fields,
			Timestamp:   now,
		}

	case errors.Is(err, apperrors.ErrTaskNotFound):
		return http.StatusNotFound, nil

	case errors.As(err, &appErr):
		return appErr.StatusCode, dto.ErrorResponse{Error: appErr.Code, Message: appErr.Message, Timestamp: now}

	case errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError:
		return httpErr.Code, dto.ErrorResponse{
			Error:     http.StatusText(httpErr.Code),
			Message:   fmt.Sprint(httpErr.Message),
			Timestamp: now,
		}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{
		Error:     apperrors.ErrUnexpected.Code,
		Message:   apperrors.ErrUnexpected.Message,
		Timestamp: now,
	}
}
