package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party Service Errors
var (
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")
	ErrServiceUnreachable = errors.New("service unreachable")
)

// Configuration Errors
var ErrConfigMissing = errors.New("configuration missing")

// NewServiceUnreachableError reports a failed call to an outside provider. The
// client sees message, the provider name stays in Details.
func NewServiceUnreachableError(service, message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		kind:       ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

func NewCircuitBreakerOpenError(service, message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        errors.New(message),
		kind:       ErrCircuitBreakerOpen,
		Details:    fmt.Sprintf("Circuit breaker for %s is open", service),
		Cause:      cause,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        fmt.Errorf("%s is not configured", configName),
		kind:       ErrConfigMissing,
		Cause:      cause,
	}
}

func IsServiceUnreachableError(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsCircuitBreakerOpenError(err error) bool {
	return errors.Is(err, ErrCircuitBreakerOpen)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
