package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Gateway errors
var (
	ErrGatewayNotConfigured   = errors.New("gateway: no public key configured for shop")
	ErrGatewayUnavailable     = errors.New("gateway: client library unavailable")
	ErrGatewayRequestFailed   = errors.New("gateway: request failed")
	ErrGatewayInvalidResponse = errors.New("gateway: invalid response")
	ErrGatewayInvalidCallback = errors.New("gateway: invalid callback signature")
)

// OutcomeStatus is the resolution of one hosted payment attempt.
// An attempt resolves exactly once: success or cancelled, never both.
type OutcomeStatus string

const (
	// OutcomeSuccess means the gateway confirmed the charge
	OutcomeSuccess OutcomeStatus = "SUCCESS"
	// OutcomeCancelled means the customer closed the hosted dialog
	OutcomeCancelled OutcomeStatus = "CANCELLED"
)

// Outcome is the single resolution of a hosted payment attempt.
// Reference is set only on success and carries the gateway's
// transaction reference.
type Outcome struct {
	Status    OutcomeStatus `json:"status"`
	Reference string        `json:"reference,omitempty"`
}

// IsSuccess returns true if the gateway confirmed payment
func (o Outcome) IsSuccess() bool {
	return o.Status == OutcomeSuccess
}

// Validate checks internal consistency of the outcome
func (o Outcome) Validate() error {
	switch o.Status {
	case OutcomeSuccess:
		if o.Reference == "" {
			return fmt.Errorf("%w: success outcome without reference", ErrGatewayInvalidResponse)
		}
	case OutcomeCancelled:
	default:
		return fmt.Errorf("%w: unknown outcome status %q", ErrGatewayInvalidResponse, o.Status)
	}
	return nil
}

// HostedSessionRequest describes the hosted checkout to open.
// AmountMinor is in the currency's minor unit; conversion happens at
// the Money boundary before the request is built.
type HostedSessionRequest struct {
	PublicKey   string
	Email       string
	AmountMinor int64
	Currency    valueobject.Currency
	Reference   string
	CallbackURL string
}

// Validate checks the request before it is sent to the gateway
func (r HostedSessionRequest) Validate() error {
	if r.PublicKey == "" {
		return ErrGatewayNotConfigured
	}
	if r.Email == "" {
		return fmt.Errorf("%w: customer email is required", ErrGatewayRequestFailed)
	}
	if r.AmountMinor <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrGatewayRequestFailed)
	}
	if r.Reference == "" {
		return fmt.Errorf("%w: payment reference is required", ErrGatewayRequestFailed)
	}
	return nil
}

// HostedSession is an open hosted payment UI the customer is sent to
type HostedSession struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	OpenedAt         time.Time
}

// Gateway is the port to the hosted payment gateway collaborator
type Gateway interface {
	// EnsureClientReady loads the gateway client once; repeated calls
	// are no-ops. Returns ErrGatewayUnavailable if the client cannot
	// be initialized.
	EnsureClientReady(ctx context.Context) error
	// OpenSession opens a hosted payment session for the request
	OpenSession(ctx context.Context, req HostedSessionRequest) (*HostedSession, error)
	// VerifyCallback authenticates a raw gateway callback and returns
	// the resolved payment outcome
	VerifyCallback(payload []byte, signature string) (*Outcome, error)
}

// NewPaymentReference builds the idempotent reference sent to the
// gateway for one payment attempt: ORDER_{orderId}_{timestamp}.
func NewPaymentReference(orderID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("ORDER_%s_%d", orderID, at.Unix())
}
