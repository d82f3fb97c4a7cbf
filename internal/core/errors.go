// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrSymbolInvalid = &Error{Code: "SYMBOL_INVALID", Message: "invalid symbol"}
	ErrNoData        = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrRangeInvalid  = &Error{Code: "RANGE_INVALID", Message: "invalid time range"}
	ErrQueryInvalid  = &Error{Code: "QUERY_INVALID", Message: "invalid query parameter"}

	// Collector errors
	ErrCollectorFailed = &Error{Code: "COLLECTOR_FAILED", Message: "market data fetch failed"}

	// Backtest errors
	ErrInvalidWindow  = &Error{Code: "INVALID_WINDOW", Message: "moving average window must be positive"}
	ErrInvalidCapital = &Error{Code: "INVALID_CAPITAL", Message: "initial capital cannot be negative"}
	ErrZeroCapital    = &Error{Code: "ZERO_CAPITAL", Message: "return percentage undefined for zero initial capital"}

	// Export errors
	ErrExportFailed = &Error{Code: "EXPORT_FAILED", Message: "export failed"}

	// Access errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
