package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// TransactionType classifies a revenue event
type TransactionType string

const (
	// TransactionTypeSale is a confirmed order payment
	TransactionTypeSale TransactionType = "SALE"
)

// RevenueEntry is one row in the append-only revenue ledger: exactly
// one per confirmed settlement. Entries are never mutated or deleted;
// shop balance and payouts are computed from them.
type RevenueEntry struct {
	ID               uuid.UUID
	ShopID           uuid.UUID
	OrderID          uuid.UUID
	Amount           decimal.Decimal
	Currency         valueobject.Currency
	PaymentReference string
	PaymentMethod    order.PaymentMethod
	TransactionType  TransactionType
	RecordedAt       time.Time
}

// NewRevenueEntry creates a ledger entry for a settled payment
func NewRevenueEntry(shopID, orderID uuid.UUID, amount valueobject.Money, paymentReference string, method order.PaymentMethod) (*RevenueEntry, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	if paymentReference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	return &RevenueEntry{
		ID:               uuid.New(),
		ShopID:           shopID,
		OrderID:          orderID,
		Amount:           amount.Amount(),
		Currency:         amount.Currency(),
		PaymentReference: paymentReference,
		PaymentMethod:    method,
		TransactionType:  TransactionTypeSale,
		RecordedAt:       time.Now(),
	}, nil
}

// AmountMoney returns the settled amount as Money
func (e *RevenueEntry) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}

// ErrDuplicateEntry is returned by Insert when an entry for the same
// (orderID, paymentReference) pair already exists. The uniqueness is
// enforced at the storage layer rather than trusting caller discipline.
var ErrDuplicateEntry = shared.NewDomainError("DUPLICATE_SETTLEMENT", "A revenue entry for this order and payment reference already exists")

// Repository defines persistence for the revenue ledger
type Repository interface {
	// Insert appends one entry; returns ErrDuplicateEntry if the
	// (orderID, paymentReference) pair was already recorded
	Insert(ctx context.Context, entry *RevenueEntry) error
	FindByOrderAndReference(ctx context.Context, orderID uuid.UUID, paymentReference string) (*RevenueEntry, error)
	ListForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]RevenueEntry, error)
	// BalanceForShop sums all recorded settlements for a shop
	BalanceForShop(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error)
}
