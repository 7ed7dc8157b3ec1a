package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// SettlementService records confirmed payments in the revenue ledger.
// Payment state on the order is the source of truth for the customer;
// the ledger write is the owner-facing financial record. A failed
// write therefore never rolls back the payment, it is logged loudly
// for reconciliation instead.
type SettlementService struct {
	ledgerRepo ledger.Repository
	logger     *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(ledgerRepo ledger.Repository, logger *zap.Logger) *SettlementService {
	return &SettlementService{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// RecordSettlement appends one revenue entry for a paid order.
// Replays of the same (order, reference) pair are absorbed: the
// existing entry is returned and nothing is written twice.
func (s *SettlementService) RecordSettlement(ctx context.Context, o *order.Order) (*ledger.RevenueEntry, error) {
	if !o.IsPaid() {
		return nil, shared.NewDomainError("ORDER_NOT_PAID", "Cannot record settlement for an unpaid order")
	}
	if o.PaymentReference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Paid order has no payment reference")
	}

	entry, err := ledger.NewRevenueEntry(o.ShopID, o.ID, o.GetTotalAmountMoney(), o.PaymentReference, o.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Insert(ctx, entry); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry) {
			s.logger.Warn("settlement already recorded, absorbing replay",
				zap.String("order_id", o.ID.String()),
				zap.String("payment_reference", o.PaymentReference),
			)
			return s.ledgerRepo.FindByOrderAndReference(ctx, o.ID, o.PaymentReference)
		}

		s.logger.Error("revenue ledger write failed, order remains paid and needs reconciliation",
			zap.String("shop_id", o.ShopID.String()),
			zap.String("order_id", o.ID.String()),
			zap.String("payment_reference", o.PaymentReference),
			zap.String("amount", o.TotalAmount.String()),
			zap.String("currency", string(o.Currency)),
			zap.Error(err),
		)
		return nil, shared.ErrLedgerWriteFailure
	}

	s.logger.Info("settlement recorded",
		zap.String("shop_id", o.ShopID.String()),
		zap.String("order_id", o.ID.String()),
		zap.String("payment_reference", o.PaymentReference),
		zap.String("amount", o.TotalAmount.String()),
	)

	return entry, nil
}

// ListEntries returns the revenue entries of a shop, newest first
func (s *SettlementService) ListEntries(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]RevenueEntryResponse, error) {
	entries, err := s.ledgerRepo.ListForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	return ToRevenueEntryResponses(entries), nil
}

// Balance returns the summed settlements of a shop
func (s *SettlementService) Balance(ctx context.Context, shopID uuid.UUID) (BalanceResponse, error) {
	total, err := s.ledgerRepo.BalanceForShop(ctx, shopID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return BalanceResponse{ShopID: shopID, Balance: total}, nil
}
