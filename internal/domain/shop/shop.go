package shop

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// PaymentTiming represents when the shop expects to be paid
type PaymentTiming string

const (
	// PaymentTimingPayBefore requires payment before the order is serviced
	PaymentTimingPayBefore PaymentTiming = "PAY_BEFORE"
	// PaymentTimingOnDelivery collects payment when the order is delivered
	PaymentTimingOnDelivery PaymentTiming = "ON_DELIVERY"
)

// IsValid checks if the timing is a valid PaymentTiming
func (t PaymentTiming) IsValid() bool {
	return t == PaymentTimingPayBefore || t == PaymentTimingOnDelivery
}

// BankDetails holds the account a bank transfer customer pays into
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// IsComplete returns true if all fields required to receive a transfer
// are present
func (b BankDetails) IsComplete() bool {
	return strings.TrimSpace(b.BankName) != "" &&
		strings.TrimSpace(b.AccountName) != "" &&
		strings.TrimSpace(b.AccountNumber) != ""
}

// Shop is the payment-facing configuration of one storefront. The
// wider shop record (branding, pages, catalogue) lives outside this
// subsystem; checkout only needs what is modeled here.
type Shop struct {
	shared.BaseAggregateRoot
	Name             string
	Currency         valueobject.Currency
	OwnerPhone       string
	PaymentTiming    PaymentTiming
	EnabledMethods   []order.PaymentMethod
	GatewayPublicKey string
	BankDetails      *BankDetails
}

// NewShop creates a shop payment configuration
func NewShop(name string, currency valueobject.Currency, ownerPhone string, timing PaymentTiming) (*Shop, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	if !timing.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TIMING", "Payment timing must be pay-before or on-delivery")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Currency:          currency,
		OwnerPhone:        ownerPhone,
		PaymentTiming:     timing,
		EnabledMethods:    make([]order.PaymentMethod, 0),
	}, nil
}

// EnableMethod adds a payment method to the shop configuration
func (s *Shop) EnableMethod(m order.PaymentMethod) error {
	if !m.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	for _, existing := range s.EnabledMethods {
		if existing == m {
			return nil
		}
	}
	s.EnabledMethods = append(s.EnabledMethods, m)
	return nil
}

// SupportsMethod returns true if the shop accepts the given method
func (s *Shop) SupportsMethod(m order.PaymentMethod) bool {
	for _, existing := range s.EnabledMethods {
		if existing == m {
			return true
		}
	}
	return false
}

// HasGatewayConfigured returns true if hosted gateway checkout can be
// offered: the guard for the gateway strategy
func (s *Shop) HasGatewayConfigured() bool {
	return strings.TrimSpace(s.GatewayPublicKey) != ""
}

// HasBankDetails returns true if bank transfer instructions can be
// shown: the guard for the bank transfer strategy
func (s *Shop) HasBankDetails() bool {
	return s.BankDetails != nil && s.BankDetails.IsComplete()
}

// RequiresPaymentBeforeService returns true when the proof gate applies
// to bank transfer orders of this shop
func (s *Shop) RequiresPaymentBeforeService() bool {
	return s.PaymentTiming == PaymentTimingPayBefore
}

// Repository defines read access to shop payment configuration
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	Save(ctx context.Context, s *Shop) error
}
