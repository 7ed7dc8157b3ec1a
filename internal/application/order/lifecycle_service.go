package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ledgerapp "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// LifecycleService exposes the owner-side order operations: reviewing
// incoming orders, confirming payments and walking an order through
// fulfilment. Customer-side operations live in the checkout
// orchestrator.
type LifecycleService struct {
	orderRepo      order.Repository
	settlements    *ledgerapp.SettlementService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(orderRepo order.Repository, settlements *ledgerapp.SettlementService, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		orderRepo:   orderRepo,
		settlements: settlements,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LifecycleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID retrieves an order by ID for a shop
func (s *LifecycleService) GetByID(ctx context.Context, shopID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves a list of orders with filtering and pagination
func (s *LifecycleService) List(ctx context.Context, shopID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.PaymentStatus != nil {
		domainFilter.Filters["payment_status"] = string(*filter.PaymentStatus)
	}
	if filter.Search != "" {
		domainFilter.Filters["search"] = filter.Search
	}

	orders, err := s.orderRepo.FindAllForShop(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForShop(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// Approve confirms an on-delivery order request
func (s *LifecycleService) Approve(ctx context.Context, shopID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, shopID, orderID, func(o *order.Order) error {
		return o.Approve()
	})
}

// MarkPaid records the owner's confirmation that a bank transfer
// arrived, then writes the settlement to the revenue ledger.
func (s *LifecycleService) MarkPaid(ctx context.Context, shopID, orderID uuid.UUID, req MarkPaidRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.MarkPaidManually(req.Reference); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	if _, err := s.settlements.RecordSettlement(ctx, o); err != nil {
		s.logger.Error("settlement recording failed after manual payment confirmation",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// StartProcessing advances a confirmed or paid order into fulfilment
func (s *LifecycleService) StartProcessing(ctx context.Context, shopID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, shopID, orderID, func(o *order.Order) error {
		return o.StartProcessing()
	})
}

// Ship marks an order as out for delivery
func (s *LifecycleService) Ship(ctx context.Context, shopID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, shopID, orderID, func(o *order.Order) error {
		return o.Ship()
	})
}

// Deliver marks an order as delivered. Cash-on-delivery orders settle
// here, so their revenue entry is written at delivery time.
func (s *LifecycleService) Deliver(ctx context.Context, shopID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}

	wasPaid := o.IsPaid()
	if err := o.Deliver(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	if !wasPaid && o.PaymentMethod == order.PaymentMethodOnDelivery {
		if _, err := s.settlements.RecordSettlement(ctx, o); err != nil {
			s.logger.Error("settlement recording failed after cash delivery",
				zap.String("order_id", o.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order on behalf of the owner or the customer
func (s *LifecycleService) Cancel(ctx context.Context, shopID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	by := order.CancelledBy(req.By)
	if by != order.CancelledByOwner && by != order.CancelledByCustomer {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cancelling party must be OWNER or CUSTOMER")
	}

	return s.transition(ctx, shopID, orderID, func(o *order.Order) error {
		return o.Cancel(by, req.Reason)
	})
}

func (s *LifecycleService) transition(ctx context.Context, shopID, orderID uuid.UUID, apply func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}

	if err := apply(o); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *LifecycleService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()
}
