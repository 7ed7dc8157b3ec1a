package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// RevenueEntryModel is the persistence model for a revenue ledger
// entry. The unique index over (order_id, payment_reference) is what
// makes settlement recording idempotent: replays hit the constraint
// instead of double-counting revenue.
type RevenueEntryModel struct {
	ID               uuid.UUID              `gorm:"type:uuid;primary_key"`
	ShopID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderID          uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_revenue_order_reference,priority:1"`
	Amount           decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Currency         string                 `gorm:"type:varchar(3);not null"`
	PaymentReference string                 `gorm:"type:varchar(100);not null;uniqueIndex:idx_revenue_order_reference,priority:2"`
	PaymentMethod    order.PaymentMethod    `gorm:"type:varchar(20);not null"`
	TransactionType  ledger.TransactionType `gorm:"type:varchar(20);not null"`
	RecordedAt       time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RevenueEntryModel) TableName() string {
	return "revenue_entries"
}

// ToDomain converts the persistence model to a domain RevenueEntry.
func (m *RevenueEntryModel) ToDomain() *ledger.RevenueEntry {
	return &ledger.RevenueEntry{
		ID:               m.ID,
		ShopID:           m.ShopID,
		OrderID:          m.OrderID,
		Amount:           m.Amount,
		Currency:         valueobject.Currency(m.Currency),
		PaymentReference: m.PaymentReference,
		PaymentMethod:    m.PaymentMethod,
		TransactionType:  m.TransactionType,
		RecordedAt:       m.RecordedAt,
	}
}

// FromDomain populates the persistence model from a domain RevenueEntry.
func (m *RevenueEntryModel) FromDomain(e *ledger.RevenueEntry) {
	m.ID = e.ID
	m.ShopID = e.ShopID
	m.OrderID = e.OrderID
	m.Amount = e.Amount
	m.Currency = string(e.Currency)
	m.PaymentReference = e.PaymentReference
	m.PaymentMethod = e.PaymentMethod
	m.TransactionType = e.TransactionType
	m.RecordedAt = e.RecordedAt
}

// RevenueEntryModelFromDomain creates a new persistence model from a domain RevenueEntry.
func RevenueEntryModelFromDomain(e *ledger.RevenueEntry) *RevenueEntryModel {
	m := &RevenueEntryModel{}
	m.FromDomain(e)
	return m
}
