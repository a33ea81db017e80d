package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTooLarge     = errors.New("payload too large")
)

// AppError carries a user facing message alongside one of the sentinel kinds above.
type AppError struct {
	Kind            error
	Message         string
	Fields          map[string]string
	UnverifiedCount int
}

func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func NotFound(message string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: message}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: ErrInvalidState, Message: message}
}

func UnverifiedItems(count int) *AppError {
	return &AppError{
		Kind:            ErrInvalidState,
		Message:         fmt.Sprintf("%d item(s) not yet verified", count),
		UnverifiedCount: count,
	}
}

func Validation(fields map[string]string) *AppError {
	return &AppError{Kind: ErrValidation, Message: "invalid request", Fields: fields}
}

func ValidationMessage(message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: ErrUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: ErrForbidden, Message: message}
}

func TooLarge(message string) *AppError {
	return &AppError{Kind: ErrTooLarge, Message: message}
}

// AsAppError unwraps err into an *AppError when one is present in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
