package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a storefront order
type OrderStatus string

const (
	OrderStatusCreated              OrderStatus = "CREATED"
	OrderStatusAwaitingApproval     OrderStatus = "AWAITING_APPROVAL"
	OrderStatusPending              OrderStatus = "PENDING"
	OrderStatusPaidAwaitingDelivery OrderStatus = "PAID_AWAITING_DELIVERY"
	OrderStatusConfirmed            OrderStatus = "CONFIRMED"
	OrderStatusProcessing           OrderStatus = "PROCESSING"
	OrderStatusOutForDelivery       OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered            OrderStatus = "DELIVERED"
	OrderStatusCancelled            OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusAwaitingApproval, OrderStatusPending,
		OrderStatusPaidAwaitingDelivery, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// This table is the single authority on legal order state changes; no
// component mutates Status outside the aggregate methods below.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusCreated:
		return target == OrderStatusAwaitingApproval || target == OrderStatusPending
	case OrderStatusAwaitingApproval:
		return target == OrderStatusConfirmed
	case OrderStatusPending:
		return target == OrderStatusPaidAwaitingDelivery || target == OrderStatusConfirmed
	case OrderStatusPaidAwaitingDelivery:
		return target == OrderStatusProcessing
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing
	case OrderStatusProcessing:
		return target == OrderStatusOutForDelivery
	case OrderStatusOutForDelivery:
		return target == OrderStatusDelivered
	}
	return false
}

// PaymentStatus represents how far payment has progressed for an order
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod represents the payment path chosen at checkout
type PaymentMethod string

const (
	PaymentMethodGateway      PaymentMethod = "GATEWAY"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOnDelivery   PaymentMethod = "ON_DELIVERY"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodGateway, PaymentMethodBankTransfer, PaymentMethodOnDelivery:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// CancelledBy identifies which party cancelled an order
type CancelledBy string

const (
	CancelledByOwner    CancelledBy = "OWNER"
	CancelledByCustomer CancelledBy = "CUSTOMER"
)

// OrderItem represents a line item copied from the cart snapshot.
// Items are immutable once the order leaves CREATED status.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice
	CreatedAt   time.Time
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity int64, unitPrice valueobject.Money) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      unitPrice.Amount().Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	}, nil
}

// GetAmountMoney returns the line amount as Money value object
func (i *OrderItem) GetAmountMoney(currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(i.Amount, currency)
	return m
}

// Order represents a storefront order aggregate root.
// It is the durable record of one checkout and is driven through its
// lifecycle exclusively by the guarded transition methods below.
type Order struct {
	shared.ShopAggregateRoot
	Contact          valueobject.CustomerContact
	Items            []OrderItem
	TotalAmount      decimal.Decimal
	Currency         valueobject.Currency
	Status           OrderStatus
	PaymentStatus    PaymentStatus
	PaymentMethod    PaymentMethod
	PaymentReference string
	ProofSent        bool
	SubmittedAt      *time.Time
	PaidAt           *time.Time
	ConfirmedAt      *time.Time
	ProcessingAt     *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CancelledBy      CancelledBy
	CancelReason     string
}

// NewOrder creates a new order in CREATED status.
// The ID is generated here, before persistence; it stays provisional
// until the repository confirms the first Save.
func NewOrder(shopID uuid.UUID, contact valueobject.CustomerContact, currency valueobject.Currency) (*Order, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if verrs := contact.Validate(); verrs.HasErrors() {
		return nil, verrs
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	order := &Order{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Contact:           contact,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		Currency:          currency,
		Status:            OrderStatusCreated,
		PaymentStatus:     PaymentStatusUnpaid,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item to the order
// Only allowed in CREATED status; items are immutable afterwards
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int64, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.Status != OrderStatusCreated {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items after checkout submission")
	}
	if unitPrice.Currency() != o.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Item currency does not match order currency")
	}

	item, err := NewOrderItem(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// SubmitForApproval submits an on-delivery order to the shop owner.
// Transition: CREATED -> AWAITING_APPROVAL. Guard: at least one item.
func (o *Order) SubmitForApproval() error {
	if !o.Status.CanTransitionTo(OrderStatusAwaitingApproval) {
		return o.transitionError(OrderStatusAwaitingApproval)
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}

	now := time.Now()
	o.Status = OrderStatusAwaitingApproval
	o.PaymentMethod = PaymentMethodOnDelivery
	o.SubmittedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderSubmittedEvent(o))

	return nil
}

// SubmitPendingPayment submits an order that will be paid via the
// gateway or a bank transfer. Transition: CREATED -> PENDING.
// Guard: at least one item and a pay-before method.
func (o *Order) SubmitPendingPayment(method PaymentMethod) error {
	if !o.Status.CanTransitionTo(OrderStatusPending) {
		return o.transitionError(OrderStatusPending)
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}
	if method != PaymentMethodGateway && method != PaymentMethodBankTransfer {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Pending submission requires gateway or bank transfer method")
	}

	now := time.Now()
	o.Status = OrderStatusPending
	o.PaymentMethod = method
	o.SubmittedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderSubmittedEvent(o))

	return nil
}

// BeginGatewayPayment records that a hosted gateway session was opened
// for this order. The order stays PENDING; payment status moves to
// PENDING until the gateway resolves the attempt.
func (o *Order) BeginGatewayPayment(reference string) error {
	if o.Status != OrderStatusPending || o.PaymentMethod != PaymentMethodGateway {
		return shared.NewDomainError("INVALID_STATE", "Gateway payment can only begin on a pending gateway order")
	}
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}
	if reference == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot be empty")
	}

	o.PaymentStatus = PaymentStatusPending
	o.PaymentReference = reference
	o.UpdatedAt = time.Now()

	return nil
}

// AbandonGatewayPayment records that the customer closed the hosted
// payment dialog. The order stays PENDING and payable again later.
func (o *Order) AbandonGatewayPayment() error {
	if o.Status != OrderStatusPending || o.PaymentMethod != PaymentMethodGateway {
		return shared.NewDomainError("INVALID_STATE", "No gateway payment in progress for this order")
	}
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}

	o.PaymentStatus = PaymentStatusUnpaid
	o.UpdatedAt = time.Now()

	return nil
}

// ConfirmGatewayPayment records a successful gateway settlement.
// Transition: PENDING -> PAID_AWAITING_DELIVERY. Guard: a payment
// reference returned by the gateway.
func (o *Order) ConfirmGatewayPayment(reference string) error {
	if !o.Status.CanTransitionTo(OrderStatusPaidAwaitingDelivery) {
		return o.transitionError(OrderStatusPaidAwaitingDelivery)
	}
	if o.PaymentMethod != PaymentMethodGateway {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Only gateway orders can be confirmed by a gateway callback")
	}
	if reference == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Gateway payment reference cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusPaidAwaitingDelivery
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentReference = reference
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaymentConfirmedEvent(o))

	return nil
}

// MarkProofSent records the customer's proof-of-payment signal for a
// bank transfer order. Settable exactly once; the order stays PENDING.
func (o *Order) MarkProofSent() error {
	if o.Status != OrderStatusPending || o.PaymentMethod != PaymentMethodBankTransfer {
		return shared.NewDomainError("INVALID_STATE", "Payment proof applies only to pending bank transfer orders")
	}
	if o.ProofSent {
		return shared.NewDomainError("PROOF_ALREADY_SENT", "Payment proof was already submitted")
	}

	o.ProofSent = true
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderProofSubmittedEvent(o))

	return nil
}

// MarkPaidManually records that the shop owner verified a bank transfer.
// Transition: PENDING -> CONFIRMED. A reference is generated when the
// owner did not supply one, so the ledger entry always has a key.
func (o *Order) MarkPaidManually(reference string) error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) || o.Status != OrderStatusPending {
		return o.transitionError(OrderStatusConfirmed)
	}

	now := time.Now()
	if reference == "" {
		reference = fmt.Sprintf("TRANSFER_%s_%d", o.ID, now.Unix())
	}
	o.Status = OrderStatusConfirmed
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentReference = reference
	o.PaidAt = &now
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderMarkedPaidEvent(o))

	return nil
}

// Approve confirms an on-delivery order request.
// Transition: AWAITING_APPROVAL -> CONFIRMED.
func (o *Order) Approve() error {
	if o.Status != OrderStatusAwaitingApproval {
		return o.transitionError(OrderStatusConfirmed)
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderApprovedEvent(o))

	return nil
}

// StartProcessing advances a confirmed or gateway-paid order.
// Transition: CONFIRMED | PAID_AWAITING_DELIVERY -> PROCESSING.
func (o *Order) StartProcessing() error {
	if !o.Status.CanTransitionTo(OrderStatusProcessing) {
		return o.transitionError(OrderStatusProcessing)
	}

	now := time.Now()
	o.Status = OrderStatusProcessing
	o.ProcessingAt = &now
	o.UpdatedAt = now

	return nil
}

// Ship marks the order as out for delivery.
// Transition: PROCESSING -> OUT_FOR_DELIVERY.
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusOutForDelivery) {
		return o.transitionError(OrderStatusOutForDelivery)
	}

	now := time.Now()
	o.Status = OrderStatusOutForDelivery
	o.OutForDeliveryAt = &now
	o.UpdatedAt = now

	return nil
}

// Deliver marks the order as delivered.
// Transition: OUT_FOR_DELIVERY -> DELIVERED. Guard: pay-before orders
// must be paid; on-delivery orders settle in cash at the door.
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return o.transitionError(OrderStatusDelivered)
	}
	if o.PaymentMethod != PaymentMethodOnDelivery && o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot deliver an unpaid order")
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	if o.PaymentMethod == PaymentMethodOnDelivery && o.PaymentStatus != PaymentStatusPaid {
		o.PaymentStatus = PaymentStatusPaid
		o.PaidAt = &now
		if o.PaymentReference == "" {
			o.PaymentReference = fmt.Sprintf("COD_%s_%d", o.ID, now.Unix())
		}
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order from any non-terminal state
func (o *Order) Cancel(by CancelledBy, reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return o.transitionError(OrderStatusCancelled)
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelledBy = by
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// recalculateTotal recalculates the order total from its items
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

func (o *Order) transitionError(target OrderStatus) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.TotalAmount, o.Currency)
	return m
}

// ItemCount returns the number of line items in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsPaid returns true if payment has been settled
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// RequiresProof returns true while the proof gate blocks checkout
// completion: a pending bank transfer order with no proof submitted
func (o *Order) RequiresProof() bool {
	return o.PaymentMethod == PaymentMethodBankTransfer &&
		o.Status == OrderStatusPending &&
		!o.ProofSent
}
