package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shop"
)

// PaymentAttempt is the ephemeral record of one in-flight payment.
// It lives only inside the checkout session and is never persisted as
// its own entity.
type PaymentAttempt struct {
	Method      order.PaymentMethod `json:"method"`
	Reference   string              `json:"reference"`
	InitiatedAt time.Time           `json:"initiated_at"`
}

// Session is the per-checkout context object. What the storefront UI
// used to keep as ambient component state (the cart, the "initializing
// payment" flag, surfaced bank details) is explicit here so the
// workflow is testable without any UI.
type Session struct {
	ID                  uuid.UUID           `json:"id"`
	ShopID              uuid.UUID           `json:"shop_id"`
	OrderID             uuid.UUID           `json:"order_id"`
	Method              order.PaymentMethod `json:"method"`
	Cart                *CartSnapshot       `json:"cart,omitempty"`
	Attempt             *PaymentAttempt     `json:"attempt,omitempty"`
	InitializingPayment bool                `json:"initializing_payment"`
	BankDetails         *shop.BankDetails   `json:"bank_details,omitempty"`
	AuthorizationURL    string              `json:"authorization_url,omitempty"`
	Completed           bool                `json:"completed"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// NewSession starts a checkout session over a captured cart snapshot
func NewSession(shopID uuid.UUID, cart *CartSnapshot) (*Session, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Checkout requires a non-empty cart")
	}

	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		ShopID:    shopID,
		Cart:      cart,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AttachOrder binds the confirmed-persisted order to the session.
// The order ID is exposed to payment strategies only through this
// attachment, after the storage write succeeded.
func (s *Session) AttachOrder(orderID uuid.UUID, method order.PaymentMethod) error {
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if s.OrderID != uuid.Nil {
		return shared.NewDomainError("INVALID_STATE", "Session already has an order attached")
	}

	s.OrderID = orderID
	s.Method = method
	s.UpdatedAt = time.Now()
	return nil
}

// BeginPaymentAttempt records an in-flight hosted payment
func (s *Session) BeginPaymentAttempt(reference string) error {
	if s.OrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot begin payment before the order is attached")
	}
	if s.InitializingPayment {
		return shared.NewDomainError("INVALID_STATE", "A payment attempt is already in progress")
	}

	now := time.Now()
	s.Attempt = &PaymentAttempt{
		Method:      s.Method,
		Reference:   reference,
		InitiatedAt: now,
	}
	s.InitializingPayment = true
	s.UpdatedAt = now
	return nil
}

// EndPaymentAttempt clears the initializing flag. Called on both
// resolution paths of the attempt; the order outcome is recorded on
// the aggregate, not here.
func (s *Session) EndPaymentAttempt() {
	s.InitializingPayment = false
	s.UpdatedAt = time.Now()
}

// SurfaceBankDetails exposes the shop's transfer instructions to the
// customer for the bank transfer path
func (s *Session) SurfaceBankDetails(details shop.BankDetails) {
	copied := details
	s.BankDetails = &copied
	s.UpdatedAt = time.Now()
}

// ClearCart destroys the cart snapshot on terminal checkout success
// or explicit cancel
func (s *Session) ClearCart() {
	s.Cart = nil
	s.UpdatedAt = time.Now()
}

// Complete marks the checkout finished and clears the cart
func (s *Session) Complete() error {
	if s.Completed {
		return shared.NewDomainError("INVALID_STATE", "Checkout session is already completed")
	}

	now := time.Now()
	s.Completed = true
	s.CompletedAt = &now
	s.ClearCart()
	s.UpdatedAt = now
	return nil
}

// CartCleared returns true once the snapshot has been destroyed
func (s *Session) CartCleared() bool {
	return s.Cart == nil
}
