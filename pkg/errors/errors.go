package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidQuery   = errors.New("invalid query")
	ErrUnknownMode    = errors.New("unknown query mode")
	ErrEmptyCorpus    = errors.New("corpus is empty")
	ErrDocumentExists = errors.New("document already exists")
	ErrStoreUnready   = errors.New("document store unavailable")
	ErrInternal       = errors.New("internal error")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, ErrDocumentExists):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnready):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
