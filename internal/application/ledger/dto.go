package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/ledger"
)

// RevenueEntryResponse represents a revenue ledger entry in responses
type RevenueEntryResponse struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PaymentReference string          `json:"payment_reference"`
	PaymentMethod    string          `json:"payment_method"`
	TransactionType  string          `json:"transaction_type"`
	RecordedAt       time.Time       `json:"recorded_at"`
}

// BalanceResponse represents a shop's summed revenue
type BalanceResponse struct {
	ShopID  uuid.UUID       `json:"shop_id"`
	Balance decimal.Decimal `json:"balance"`
}

// ToRevenueEntryResponse converts a domain entry to a response
func ToRevenueEntryResponse(e *ledger.RevenueEntry) RevenueEntryResponse {
	return RevenueEntryResponse{
		ID:               e.ID,
		OrderID:          e.OrderID,
		Amount:           e.Amount,
		Currency:         string(e.Currency),
		PaymentReference: e.PaymentReference,
		PaymentMethod:    string(e.PaymentMethod),
		TransactionType:  string(e.TransactionType),
		RecordedAt:       e.RecordedAt,
	}
}

// ToRevenueEntryResponses converts a slice of domain entries
func ToRevenueEntryResponses(entries []ledger.RevenueEntry) []RevenueEntryResponse {
	responses := make([]RevenueEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToRevenueEntryResponse(&entries[i])
	}
	return responses
}
