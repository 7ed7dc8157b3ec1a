package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// OrderItemResponse represents a line item in responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents a full order in responses
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	ShopID           uuid.UUID           `json:"shop_id"`
	CustomerName     string              `json:"customer_name"`
	CustomerEmail    string              `json:"customer_email"`
	CustomerPhone    string              `json:"customer_phone"`
	DeliveryAddress  string              `json:"delivery_address"`
	Items            []OrderItemResponse `json:"items"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Currency         string              `json:"currency"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	ProofSent        bool                `json:"proof_sent"`
	SubmittedAt      *time.Time          `json:"submitted_at,omitempty"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	ConfirmedAt      *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy      string              `json:"cancelled_by,omitempty"`
	CancelReason     string              `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	ItemCount     int             `json:"item_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderListFilter represents list filtering options for owner views
type OrderListFilter struct {
	Status        *order.OrderStatus   `form:"status"`
	PaymentStatus *order.PaymentStatus `form:"payment_status"`
	Search        string               `form:"search"`
	Page          int                  `form:"page"`
	PageSize      int                  `form:"page_size"`
	OrderBy       string               `form:"order_by"`
	OrderDir      string               `form:"order_dir"`
}

// MarkPaidRequest represents an owner confirming a bank transfer
type MarkPaidRequest struct {
	Reference string `json:"reference"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	By     string `json:"by" binding:"required"`
	Reason string `json:"reason"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}

	return OrderResponse{
		ID:               o.ID,
		ShopID:           o.ShopID,
		CustomerName:     o.Contact.Name,
		CustomerEmail:    o.Contact.Email,
		CustomerPhone:    o.Contact.Phone,
		DeliveryAddress:  o.Contact.Address,
		Items:            items,
		TotalAmount:      o.TotalAmount,
		Currency:         string(o.Currency),
		Status:           string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		PaymentMethod:    string(o.PaymentMethod),
		PaymentReference: o.PaymentReference,
		ProofSent:        o.ProofSent,
		SubmittedAt:      o.SubmittedAt,
		PaidAt:           o.PaidAt,
		ConfirmedAt:      o.ConfirmedAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
		CancelledBy:      string(o.CancelledBy),
		CancelReason:     o.CancelReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts a domain order to a list item
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            o.ID,
		CustomerName:  o.Contact.Name,
		CustomerPhone: o.Contact.Phone,
		ItemCount:     o.ItemCount(),
		TotalAmount:   o.TotalAmount,
		Currency:      string(o.Currency),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
	}
}

// ToOrderListItemResponses converts a slice of domain orders
func ToOrderListItemResponses(orders []order.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses
}
