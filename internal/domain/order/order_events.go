package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderSubmitted        = "OrderSubmitted"
	EventTypeOrderPaymentConfirmed = "OrderPaymentConfirmed"
	EventTypeOrderProofSubmitted   = "OrderProofSubmitted"
	EventTypeOrderMarkedPaid       = "OrderMarkedPaid"
	EventTypeOrderApproved         = "OrderApproved"
	EventTypeOrderDelivered        = "OrderDelivered"
	EventTypeOrderCancelled        = "OrderCancelled"
)

// OrderItemInfo represents line item information carried on events
type OrderItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func itemInfos(items []OrderItem) []OrderItemInfo {
	infos := make([]OrderItemInfo, len(items))
	for i, item := range items {
		infos[i] = OrderItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return infos
}

// OrderCreatedEvent is raised when a new order is created at checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	CustomerName string    `json:"customer_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		CustomerName:    o.Contact.Name,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderSubmittedEvent is raised when checkout submits the order on one
// of the three payment paths
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         []OrderItemInfo `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(o *Order) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		PaymentMethod:   o.PaymentMethod,
		CustomerName:    o.Contact.Name,
		CustomerPhone:   o.Contact.Phone,
		Items:           itemInfos(o.Items),
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderSubmittedEvent) EventType() string {
	return EventTypeOrderSubmitted
}

// OrderPaymentConfirmedEvent is raised when the gateway settles payment.
// This event triggers the revenue ledger write and the payment-success
// notification.
type OrderPaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID       `json:"order_id"`
	PaymentReference string          `json:"payment_reference"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PaidAt           time.Time       `json:"paid_at"`
}

// NewOrderPaymentConfirmedEvent creates a new OrderPaymentConfirmedEvent
func NewOrderPaymentConfirmedEvent(o *Order) *OrderPaymentConfirmedEvent {
	paidAt := time.Now()
	if o.PaidAt != nil {
		paidAt = *o.PaidAt
	}
	return &OrderPaymentConfirmedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderPaymentConfirmed, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:          o.ID,
		PaymentReference: o.PaymentReference,
		PaymentMethod:    o.PaymentMethod,
		Amount:           o.TotalAmount,
		Currency:         string(o.Currency),
		PaidAt:           paidAt,
	}
}

// EventType returns the event type name
func (e *OrderPaymentConfirmedEvent) EventType() string {
	return EventTypeOrderPaymentConfirmed
}

// OrderProofSubmittedEvent is raised when the customer signals that
// payment proof was sent for a bank transfer order
type OrderProofSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewOrderProofSubmittedEvent creates a new OrderProofSubmittedEvent
func NewOrderProofSubmittedEvent(o *Order) *OrderProofSubmittedEvent {
	return &OrderProofSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderProofSubmitted, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		CustomerName:    o.Contact.Name,
		CustomerPhone:   o.Contact.Phone,
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderProofSubmittedEvent) EventType() string {
	return EventTypeOrderProofSubmitted
}

// OrderMarkedPaidEvent is raised when the shop owner verifies a bank
// transfer and marks the order paid manually
type OrderMarkedPaidEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID       `json:"order_id"`
	PaymentReference string          `json:"payment_reference"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

// NewOrderMarkedPaidEvent creates a new OrderMarkedPaidEvent
func NewOrderMarkedPaidEvent(o *Order) *OrderMarkedPaidEvent {
	return &OrderMarkedPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderMarkedPaid, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:          o.ID,
		PaymentReference: o.PaymentReference,
		Amount:           o.TotalAmount,
		Currency:         string(o.Currency),
	}
}

// EventType returns the event type name
func (e *OrderMarkedPaidEvent) EventType() string {
	return EventTypeOrderMarkedPaid
}

// OrderApprovedEvent is raised when the owner approves an on-delivery
// order request; it triggers the customer notification
type OrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
}

// NewOrderApprovedEvent creates a new OrderApprovedEvent
func NewOrderApprovedEvent(o *Order) *OrderApprovedEvent {
	return &OrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderApproved, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		CustomerName:    o.Contact.Name,
		CustomerPhone:   o.Contact.Phone,
	}
}

// EventType returns the event type name
func (e *OrderApprovedEvent) EventType() string {
	return EventTypeOrderApproved
}

// OrderDeliveredEvent is raised when the order reaches its terminal
// delivered state
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	deliveredAt := time.Now()
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		DeliveredAt:     deliveredAt,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	CancelledBy CancelledBy `json:"cancelled_by"`
	Reason      string      `json:"reason"`
	WasPaid     bool        `json:"was_paid"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		CancelledBy:     o.CancelledBy,
		Reason:          o.CancelReason,
		WasPaid:         o.PaymentStatus == PaymentStatusPaid,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
