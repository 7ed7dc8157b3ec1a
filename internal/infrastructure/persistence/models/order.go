package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	ShopAggregateModel
	CustomerName     string            `gorm:"type:varchar(200);not null"`
	CustomerEmail    string            `gorm:"type:varchar(254);not null"`
	CustomerPhone    string            `gorm:"type:varchar(30);not null"`
	DeliveryAddress  string            `gorm:"type:text;not null"`
	TotalAmount      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Currency         string            `gorm:"type:varchar(3);not null"`
	Status           order.OrderStatus   `gorm:"type:varchar(30);not null;index"`
	PaymentStatus    order.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	PaymentMethod    order.PaymentMethod `gorm:"type:varchar(20)"`
	PaymentReference string              `gorm:"type:varchar(100);index"`
	ProofSent        bool                `gorm:"not null;default:false"`
	SubmittedAt      *time.Time
	PaidAt           *time.Time
	ConfirmedAt      *time.Time
	ProcessingAt     *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CancelledBy      string           `gorm:"type:varchar(20)"`
	CancelReason     string           `gorm:"type:varchar(500)"`
	Items            []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line item.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		Contact: valueobject.CustomerContact{
			Name:    m.CustomerName,
			Email:   m.CustomerEmail,
			Phone:   m.CustomerPhone,
			Address: m.DeliveryAddress,
		},
		Items:            make([]order.OrderItem, len(m.Items)),
		TotalAmount:      m.TotalAmount,
		Currency:         valueobject.Currency(m.Currency),
		Status:           m.Status,
		PaymentStatus:    m.PaymentStatus,
		PaymentMethod:    m.PaymentMethod,
		PaymentReference: m.PaymentReference,
		ProofSent:        m.ProofSent,
		SubmittedAt:      m.SubmittedAt,
		PaidAt:           m.PaidAt,
		ConfirmedAt:      m.ConfirmedAt,
		ProcessingAt:     m.ProcessingAt,
		OutForDeliveryAt: m.OutForDeliveryAt,
		DeliveredAt:      m.DeliveredAt,
		CancelledAt:      m.CancelledAt,
		CancelledBy:      order.CancelledBy(m.CancelledBy),
		CancelReason:     m.CancelReason,
	}
	m.PopulateShopAggregateRoot(&o.ShopAggregateRoot)

	for i, item := range m.Items {
		o.Items[i] = order.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			CreatedAt:   item.CreatedAt,
		}
	}

	return o
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainShopAggregateRoot(o.ShopAggregateRoot)
	m.CustomerName = o.Contact.Name
	m.CustomerEmail = o.Contact.Email
	m.CustomerPhone = o.Contact.Phone
	m.DeliveryAddress = o.Contact.Address
	m.TotalAmount = o.TotalAmount
	m.Currency = string(o.Currency)
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.PaymentReference = o.PaymentReference
	m.ProofSent = o.ProofSent
	m.SubmittedAt = o.SubmittedAt
	m.PaidAt = o.PaidAt
	m.ConfirmedAt = o.ConfirmedAt
	m.ProcessingAt = o.ProcessingAt
	m.OutForDeliveryAt = o.OutForDeliveryAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancelledBy = string(o.CancelledBy)
	m.CancelReason = o.CancelReason

	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          item.ID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			CreatedAt:   item.CreatedAt,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
