package shared

import (
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a domain-level error
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
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "Order state transition not allowed")
	ErrProofRequired       = NewDomainError("PROOF_REQUIRED", "Payment proof must be submitted before completing the order")
	ErrGatewayUnavailable  = NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is not available")
	ErrLedgerWriteFailure  = NewDomainError("LEDGER_WRITE_FAILURE", "Failed to record settlement in revenue ledger")
)

// ValidationErrors is a field-keyed map of validation failures.
// It is returned from checkout initiation before any order is created.
type ValidationErrors map[string]string

// Error implements the error interface
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s: %s", field, v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a validation failure for a field, keeping the first message per field
func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// HasErrors returns true if any field failed validation
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}
