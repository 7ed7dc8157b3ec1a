package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormRevenueEntryRepository implements ledger.Repository using GORM.
// The ledger is append-only: there is no update or delete path.
type GormRevenueEntryRepository struct {
	db *gorm.DB
}

// NewGormRevenueEntryRepository creates a new GormRevenueEntryRepository
func NewGormRevenueEntryRepository(db *gorm.DB) *GormRevenueEntryRepository {
	return &GormRevenueEntryRepository{db: db}
}

// Insert appends one revenue entry. The unique index over
// (order_id, payment_reference) turns replays into ErrDuplicateEntry.
func (r *GormRevenueEntryRepository) Insert(ctx context.Context, entry *ledger.RevenueEntry) error {
	model := models.RevenueEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// FindByOrderAndReference finds the entry recorded for a settlement
func (r *GormRevenueEntryRepository) FindByOrderAndReference(ctx context.Context, orderID uuid.UUID, paymentReference string) (*ledger.RevenueEntry, error) {
	var model models.RevenueEntryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND payment_reference = ?", orderID, paymentReference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForShop lists revenue entries for a shop, newest first
func (r *GormRevenueEntryRepository) ListForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]ledger.RevenueEntry, error) {
	var entryModels []models.RevenueEntryModel
	query := r.db.WithContext(ctx).
		Model(&models.RevenueEntryModel{}).
		Where("shop_id = ?", shopID).
		Order("recorded_at desc")

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]ledger.RevenueEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// BalanceForShop sums all recorded settlements for a shop
func (r *GormRevenueEntryRepository) BalanceForShop(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.RevenueEntryModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("shop_id = ?", shopID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// isUniqueViolation reports whether the error is a unique constraint
// violation. Matches both Postgres (SQLSTATE 23505) and SQLite
// wording so tests can run against either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormRevenueEntryRepository implements ledger.Repository
var _ ledger.Repository = (*GormRevenueEntryRepository)(nil)
