package errors

import (
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

// NewConflictError covers the AlreadyUsed / AlreadyExecuted / duplicate
// code family: the request was well-formed but the state it wants to
// take is already consumed.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewUnprocessableEntityError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}

// NewIntegrityError flags a violated internal invariant (issuance count
// mismatch, winner without a draw). Logged in full, surfaced as 500,
// never silently corrected.
func NewIntegrityError(message string) *AppError {
	logrus.Errorf("integrity violation: %s", message)
	return NewAppError(http.StatusInternalServerError, message)
}
