package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Order workflow error codes
const (
	// ErrCodeInvalidTransition is used when an order state transition is not allowed
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeProofRequired is used when an order cannot complete before proof is sent
	ErrCodeProofRequired = "ERR_PROOF_REQUIRED"
	// ErrCodeEmptyCart is used when checkout starts with no cart lines
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeInsufficientStock is used when a cart line exceeds available stock
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeMethodUnavailable is used when the shop does not offer a payment method
	ErrCodeMethodUnavailable = "ERR_METHOD_UNAVAILABLE"
)

// Payment error codes
const (
	// ErrCodeGatewayUnavailable is used when the payment gateway cannot be reached
	ErrCodeGatewayUnavailable = "ERR_GATEWAY_UNAVAILABLE"
	// ErrCodeGatewayRejected is used when the gateway refused the payment request
	ErrCodeGatewayRejected = "ERR_GATEWAY_REJECTED"
	// ErrCodeInvalidCallback is used when a gateway callback fails authentication
	ErrCodeInvalidCallback = "ERR_INVALID_CALLBACK"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Workflow errors. Transition refusals are conflicts with the
	// order's current state; proof and stock gates are business rules.
	ErrCodeInvalidTransition: http.StatusConflict,
	ErrCodeInvalidState:      http.StatusConflict,
	ErrCodeProofRequired:     http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeMethodUnavailable: http.StatusUnprocessableEntity,

	// Payment errors
	ErrCodeGatewayUnavailable: http.StatusBadGateway,
	ErrCodeGatewayRejected:    http.StatusBadGateway,
	ErrCodeInvalidCallback:    http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_SHOP":           ErrCodeInvalidInput,
	"INVALID_SHOP_NAME":      ErrCodeInvalidInput,
	"INVALID_ORDER":          ErrCodeInvalidInput,
	"INVALID_PRODUCT":        ErrCodeInvalidInput,
	"INVALID_PRODUCT_NAME":   ErrCodeInvalidInput,
	"INVALID_QUANTITY":       ErrCodeInvalidInput,
	"INVALID_PRICE":          ErrCodeInvalidInput,
	"INVALID_AMOUNT":         ErrCodeInvalidInput,
	"INVALID_REFERENCE":      ErrCodeInvalidInput,
	"INVALID_PAYMENT_METHOD": ErrCodeInvalidInput,
	"INVALID_PAYMENT_TIMING": ErrCodeInvalidInput,
	"CURRENCY_MISMATCH":      ErrCodeInvalidInput,
	"NO_ITEMS":               ErrCodeEmptyCart,

	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_TRANSITION":   ErrCodeInvalidTransition,
	"PROOF_REQUIRED":       ErrCodeProofRequired,
	"PROOF_ALREADY_SENT":   ErrCodeConflict,
	"ORDER_NOT_PAID":       ErrCodeInvalidState,
	"DUPLICATE_SETTLEMENT": ErrCodeAlreadyExists,
	"EMPTY_CART":           ErrCodeEmptyCart,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,

	"METHOD_NOT_ENABLED":     ErrCodeMethodUnavailable,
	"BANK_DETAILS_MISSING":   ErrCodeMethodUnavailable,
	"GATEWAY_NOT_CONFIGURED": ErrCodeMethodUnavailable,
	"GATEWAY_UNAVAILABLE":    ErrCodeGatewayUnavailable,
	"GATEWAY_REQUEST_FAILED": ErrCodeGatewayRejected,
	"INVALID_CALLBACK":       ErrCodeInvalidCallback,
	"LEDGER_WRITE_FAILURE":   ErrCodeInternal,

	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
