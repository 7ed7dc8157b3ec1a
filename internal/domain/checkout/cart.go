package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CartLine is one product entry in a cart snapshot
type CartLine struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	StockAvailable int64           `json:"stock_available"`
	Quantity       int64           `json:"quantity"`
}

// Amount returns the line total
func (l CartLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// CartSnapshot is the immutable-at-checkout-time view of the cart.
// It exists only for the duration of one checkout session and is never
// persisted independently of an order.
type CartSnapshot struct {
	Lines    []CartLine           `json:"lines"`
	Total    decimal.Decimal      `json:"total"`
	Currency valueobject.Currency `json:"currency"`
}

// NewCartSnapshot captures the cart at the moment checkout begins.
// The total is computed here and must equal the sum of line amounts;
// each line quantity must fit the stock available at snapshot time.
func NewCartSnapshot(lines []CartLine, currency valueobject.Currency) (*CartSnapshot, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart must contain at least one item")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Cart line product ID cannot be empty")
		}
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Cart line quantity must be positive")
		}
		if line.Quantity > line.StockAvailable {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Cart line quantity exceeds available stock")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Cart line unit price cannot be negative")
		}
		total = total.Add(line.Amount())
	}

	return &CartSnapshot{
		Lines:    lines,
		Total:    total,
		Currency: currency,
	}, nil
}

// IsEmpty returns true if the snapshot has no lines
func (c *CartSnapshot) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// LineCount returns the number of lines in the snapshot
func (c *CartSnapshot) LineCount() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// TotalMoney returns the cart total as Money
func (c *CartSnapshot) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(c.Total, c.Currency)
	return m
}
