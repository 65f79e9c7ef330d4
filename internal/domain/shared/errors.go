package shared

// DomainError represents a domain-level error with a machine-readable code.
// Callers use the code to distinguish "blocked by amount" from "blocked by
// status" and to map violations to API error responses.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes for business-rule violations raised by aggregates
const (
	CodeInvalidState          = "INVALID_STATE"
	CodePaymentNotAllowed     = "PAYMENT_NOT_ALLOWED"
	CodePaymentExceedsBalance = "PAYMENT_EXCEEDS_BALANCE"
)

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code == "NOT_FOUND"
	}
	return false
}

// ErrorCode returns the domain error code, or "" for non-domain errors
func ErrorCode(err error) string {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code
	}
	return ""
}
