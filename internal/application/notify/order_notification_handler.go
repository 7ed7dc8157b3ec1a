package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shop"
)

// OrderNotificationHandler turns order lifecycle events into messages
// on the shop owner's messaging channel: new pay-on-delivery requests,
// proof-of-payment announcements and gateway payment confirmations.
// Dispatch failures are logged and swallowed; a missed message never
// fails the workflow that raised the event.
type OrderNotificationHandler struct {
	orderRepo  order.Repository
	shopRepo   shop.Repository
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

// NewOrderNotificationHandler creates a new OrderNotificationHandler
func NewOrderNotificationHandler(
	orderRepo order.Repository,
	shopRepo shop.Repository,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *OrderNotificationHandler {
	return &OrderNotificationHandler{
		orderRepo:  orderRepo,
		shopRepo:   shopRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderSubmitted,
		order.EventTypeOrderProofSubmitted,
		order.EventTypeOrderPaymentConfirmed,
	}
}

// Handle dispatches the message matching the event type
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var template notification.Template

	switch e := event.(type) {
	case *order.OrderSubmittedEvent:
		// Only pay-on-delivery submissions go straight to the owner;
		// gateway and bank transfer orders announce themselves when
		// payment progresses.
		if e.PaymentMethod != order.PaymentMethodOnDelivery {
			return nil
		}
		template = notification.TemplateOrderRequest
	case *order.OrderProofSubmittedEvent:
		template = notification.TemplatePaymentProof
	case *order.OrderPaymentConfirmedEvent:
		template = notification.TemplatePaymentSuccess
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	summary, ownerPhone, err := h.composeSummary(ctx, event.ShopID(), event.AggregateID())
	if err != nil {
		h.logger.Error("failed to compose order notification",
			zap.String("event_type", event.EventType()),
			zap.String("order_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}

	if err := h.dispatcher.Dispatch(ctx, template, ownerPhone, *summary); err != nil {
		h.logger.Warn("order notification dispatch failed",
			zap.String("template", string(template)),
			zap.String("order_id", summary.OrderID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func (h *OrderNotificationHandler) composeSummary(ctx context.Context, shopID, orderID uuid.UUID) (*notification.OrderSummary, string, error) {
	sh, err := h.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		return nil, "", err
	}
	o, err := h.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, "", err
	}

	lines := make([]notification.SummaryLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = notification.SummaryLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		}
	}

	return &notification.OrderSummary{
		OrderID:          o.ID,
		ShopName:         sh.Name,
		CustomerName:     o.Contact.Name,
		CustomerPhone:    o.Contact.Phone,
		DeliveryAddress:  o.Contact.Address,
		Lines:            lines,
		Total:            o.TotalAmount,
		Currency:         o.Currency,
		PaymentReference: o.PaymentReference,
	}, sh.OwnerPhone, nil
}
