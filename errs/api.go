package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common error sentinel values
var (
	ErrForbidden    = errors.New("operation not allowed")
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrConflict     = errors.New("resource conflict")
)

// Request & Input-Validation Errors, all of them bad requests
var (
	ErrMalformedPayload     = fmt.Errorf("malformed payload: %w", ErrBadRequest)
	ErrMissingRequiredField = fmt.Errorf("missing required field: %w", ErrBadRequest)
	ErrValidation           = fmt.Errorf("validation failed: %w", ErrBadRequest)
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

type ApiErr struct {
	StatusCode int
	err        error
	kind       error    // sentinel the error matches with errors.Is, may be nil
	Details    string   // Additional details about the error, logged but not sent
	Field      string   // Field that caused the error (for validation errors)
	Errors     []string // Per-field messages, all of them, for validation errors
	Cause      error    // The underlying cause of the error
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message is the client facing text of the error.
func (e *ApiErr) Message() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		// Check if the cause is also an ApiErr for recursive error handling
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., kind: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() []error {
	if e.kind == nil {
		return []error{e.err}
	}
	return []error{e.err, e.kind}
}

// Common error constructors with appropriate HTTP status codes
func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: errors.New(message), kind: ErrForbidden}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message), kind: ErrBadRequest}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: errors.New(message), kind: ErrUnauthorized}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message), kind: ErrInternal}
}

// NewConflictError is a 400, not a 409: existing clients expect "already exists"
// style failures on the bad-request path.
func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message), kind: ErrConflict}
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	e := NewInternalError(message)
	e.Cause = cause
	return e
}

// NewValidationError collects every violated field message into one 400.
func NewValidationError(messages []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New(strings.Join(messages, ", ")),
		kind:       ErrValidation,
		Errors:     messages,
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Request & Input-Validation Error Constructors
func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("malformed %s payload", payloadType),
		kind:       ErrMalformedPayload,
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New(message),
		kind:       ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        fmt.Errorf("request body exceeds %d bytes", maxSize),
		kind:       ErrMaxBodySizeExceeded,
		Field:      "body_size",
	}
}

func NewUnsupportedMediaTypeError(contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        fmt.Errorf("unsupported media type %s", contentType),
		kind:       ErrUnsupportedMediaType,
		Field:      "content_type",
	}
}

func IsMalformedPayloadError(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}
