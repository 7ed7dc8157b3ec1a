package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines persistence operations for the Order aggregate.
// Save must write the order header and its line items atomically: a
// failed item write fails the whole save, and the caller treats the
// checkout as failed rather than leaving an actionable order with no
// items.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*Order, error)
	// FindByPaymentReference locates the order a gateway reference was
	// issued for. References are unique per payment attempt, so this is
	// how a late callback reaches its order after the checkout session
	// is gone.
	FindByPaymentReference(ctx context.Context, reference string) (*Order, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, o *Order) error
}
