package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate
// roots, extending BaseModel with a version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot populates a domain BaseAggregateRoot from the model
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity.ID = m.ID
	a.BaseEntity.CreatedAt = m.CreatedAt
	a.BaseEntity.UpdatedAt = m.UpdatedAt
	a.Version = m.Version
}

// ShopAggregateModel provides common persistence fields for
// shop-scoped aggregate roots.
type ShopAggregateModel struct {
	AggregateModel
	ShopID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainShopAggregateRoot populates ShopAggregateModel from domain ShopAggregateRoot
func (m *ShopAggregateModel) FromDomainShopAggregateRoot(s shared.ShopAggregateRoot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ShopID = s.ShopID
}

// PopulateShopAggregateRoot populates a domain ShopAggregateRoot from the model
func (m *ShopAggregateModel) PopulateShopAggregateRoot(s *shared.ShopAggregateRoot) {
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	s.ShopID = m.ShopID
}
