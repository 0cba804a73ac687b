package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = fmt.Errorf("already exists: %w", ErrConflict)
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

var ErrDatabaseTimeout = errors.New("database timeout")

// NewAlreadyExists builds the "<Entity> already exists" conflict.
func NewAlreadyExists(entity string) *ApiErr {
	e := NewConflictError(fmt.Sprintf("%s already exists", capitalize(entity)))
	e.kind = ErrAlreadyExists
	return e
}

// NewNotFound builds the "<Entity> not found" 404.
func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s not found", capitalize(entity)),
		kind:       ErrNotFound,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Errors that already carry an HTTP mapping pass through untouched
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if cause != nil {
		if errors.Is(cause, gorm.ErrRecordNotFound) {
			e := NewNotFound(entity)
			e.Details = details
			e.Cause = cause
			return e
		}
		if errors.Is(cause, gorm.ErrDuplicatedKey) {
			return NewUniqueConstraintViolationError(entity, cause)
		}

		// Check for common database errors and provide more specific messages
		errStr := strings.ToLower(cause.Error())
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "unique constraint"):
			return NewUniqueConstraintViolationError(entity, cause)
		case strings.Contains(errStr, "deadline exceeded"), strings.Contains(errStr, "timeout"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        errors.New("Server error"),
				kind:       ErrDatabaseTimeout,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        errors.New("Server error"),
				kind:       ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New("Server error"),
		kind:       ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewUniqueConstraintViolationError(entity string, cause error) *ApiErr {
	e := NewAlreadyExists(entity)
	e.Details = fmt.Sprintf("Unique constraint violation on %s", entity)
	e.Cause = cause
	return e
}

func IsDatabaseTimeoutError(err error) bool {
	return errors.Is(err, ErrDatabaseTimeout)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
