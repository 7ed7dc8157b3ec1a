package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shop"
)

// PaymentMethodList stores the enabled payment methods as a JSON array
type PaymentMethodList []order.PaymentMethod

// Value implements driver.Valuer for database serialization
func (l PaymentMethodList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database deserialization
func (l *PaymentMethodList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethodList", value)
	}
}

// ShopModel is the persistence model for the shop payment
// configuration.
type ShopModel struct {
	AggregateModel
	Name              string             `gorm:"type:varchar(200);not null"`
	Currency          string             `gorm:"type:varchar(3);not null"`
	OwnerPhone        string             `gorm:"type:varchar(30);not null"`
	PaymentTiming     shop.PaymentTiming `gorm:"type:varchar(20);not null"`
	EnabledMethods    PaymentMethodList  `gorm:"type:jsonb;default:'[]'"`
	GatewayPublicKey  string             `gorm:"type:varchar(100)"`
	BankName          string             `gorm:"type:varchar(100)"`
	BankAccountName   string             `gorm:"type:varchar(200)"`
	BankAccountNumber string             `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop.
func (m *ShopModel) ToDomain() *shop.Shop {
	s := &shop.Shop{
		Name:             m.Name,
		Currency:         valueobject.Currency(m.Currency),
		OwnerPhone:       m.OwnerPhone,
		PaymentTiming:    m.PaymentTiming,
		EnabledMethods:   append([]order.PaymentMethod(nil), m.EnabledMethods...),
		GatewayPublicKey: m.GatewayPublicKey,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)

	if m.BankName != "" || m.BankAccountName != "" || m.BankAccountNumber != "" {
		s.BankDetails = &shop.BankDetails{
			BankName:      m.BankName,
			AccountName:   m.BankAccountName,
			AccountNumber: m.BankAccountNumber,
		}
	}

	return s
}

// FromDomain populates the persistence model from a domain Shop.
func (m *ShopModel) FromDomain(s *shop.Shop) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Currency = string(s.Currency)
	m.OwnerPhone = s.OwnerPhone
	m.PaymentTiming = s.PaymentTiming
	m.EnabledMethods = PaymentMethodList(s.EnabledMethods)
	m.GatewayPublicKey = s.GatewayPublicKey

	if s.BankDetails != nil {
		m.BankName = s.BankDetails.BankName
		m.BankAccountName = s.BankDetails.AccountName
		m.BankAccountNumber = s.BankDetails.AccountNumber
	} else {
		m.BankName = ""
		m.BankAccountName = ""
		m.BankAccountNumber = ""
	}
}

// ShopModelFromDomain creates a new persistence model from a domain Shop.
func ShopModelFromDomain(s *shop.Shop) *ShopModel {
	m := &ShopModel{}
	m.FromDomain(s)
	return m
}
