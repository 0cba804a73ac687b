package errs

import (
	"errors"
	"fmt"
)

// Authentication & Authorization Errors. Each matches the general
// unauthorized, forbidden or bad request sentinel as well.
var (
	ErrMissingToken       = fmt.Errorf("missing access token: %w", ErrUnauthorized)
	ErrExpiredToken       = fmt.Errorf("expired access token: %w", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid access token: %w", ErrUnauthorized)
	ErrInsufficientRole   = fmt.Errorf("insufficient role: %w", ErrForbidden)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrBadRequest)
	ErrSigningKeyMissing  = errors.New("token signing key missing")
)

func newTokenError(message string, kind error) *ApiErr {
	e := NewUnauthorizedError(message)
	e.kind = kind
	e.Field = "x-auth-token"
	return e
}

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return newTokenError("No token, authorization denied", ErrMissingToken)
}

func NewExpiredTokenError() *ApiErr {
	return newTokenError("Token has expired", ErrExpiredToken)
}

func NewInvalidTokenError() *ApiErr {
	return newTokenError("Token is not valid", ErrInvalidToken)
}

func NewAdminRequiredError() *ApiErr {
	e := NewForbiddenError("Access denied. Admin privileges required")
	e.kind = ErrInsufficientRole
	e.Details = "Insufficient role. Required: admin"
	return e
}

// NewInvalidCredentialsError is shared by the unknown-user and wrong-password
// paths of login so the two cannot be told apart.
func NewInvalidCredentialsError() *ApiErr {
	e := NewBadRequestError("Invalid credentials")
	e.kind = ErrInvalidCredentials
	return e
}

// Authentication & Authorization Error Type Checkers
func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsInsufficientRoleError(err error) bool {
	return errors.Is(err, ErrInsufficientRole)
}

func IsInvalidCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
