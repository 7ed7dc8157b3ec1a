package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shop"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentReference(ctx context.Context, reference string) (*order.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockShopRepository is a mock implementation of shop.Repository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func (m *MockShopRepository) Save(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, template notification.Template, recipientPhone string, summary notification.OrderSummary) error {
	args := m.Called(ctx, template, recipientPhone, summary)
	return args.Error(0)
}

type notifyFixture struct {
	orderRepo  *MockOrderRepository
	shopRepo   *MockShopRepository
	dispatcher *MockDispatcher
	handler    *OrderNotificationHandler
	shop       *shop.Shop
	shopID     uuid.UUID
}

func newNotifyFixture(t *testing.T) *notifyFixture {
	f := &notifyFixture{
		orderRepo:  new(MockOrderRepository),
		shopRepo:   new(MockShopRepository),
		dispatcher: new(MockDispatcher),
		shopID:     uuid.New(),
	}
	sh, err := shop.NewShop("Ada Stores", valueobject.NGN, "+2348098765432", shop.PaymentTimingPayBefore)
	require.NoError(t, err)
	f.shop = sh
	f.handler = NewOrderNotificationHandler(f.orderRepo, f.shopRepo, f.dispatcher, zap.NewNop())
	f.shopRepo.On("FindByID", mock.Anything, f.shopID).Return(sh, nil)
	return f
}

func (f *notifyFixture) newOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	contact := valueobject.NewCustomerContact("Amaka Obi", "amaka@example.com", "+2348012345678", "12 Allen Avenue, Ikeja")
	o, err := order.NewOrder(f.shopID, contact, valueobject.NGN)
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Ankara Tote Bag", 2, valueobject.NewMoneyNGNFromFloat(7500))
	require.NoError(t, err)

	if method == order.PaymentMethodOnDelivery {
		require.NoError(t, o.SubmitForApproval())
	} else {
		require.NoError(t, o.SubmitPendingPayment(method))
	}
	f.orderRepo.On("FindByIDForShop", mock.Anything, f.shopID, o.ID).Return(o, nil)
	return o
}

func lastEvent(t *testing.T, o *order.Order) shared.DomainEvent {
	events := o.GetDomainEvents()
	require.NotEmpty(t, events)
	return events[len(events)-1]
}

func TestOrderNotificationHandler_EventTypes(t *testing.T) {
	f := newNotifyFixture(t)
	assert.ElementsMatch(t, []string{
		order.EventTypeOrderSubmitted,
		order.EventTypeOrderProofSubmitted,
		order.EventTypeOrderPaymentConfirmed,
	}, f.handler.EventTypes())
}

func TestOrderNotificationHandler_Handle(t *testing.T) {
	t.Run("on-delivery submission sends an order request", func(t *testing.T) {
		f := newNotifyFixture(t)
		o := f.newOrder(t, order.PaymentMethodOnDelivery)

		var summary notification.OrderSummary
		f.dispatcher.On("Dispatch", mock.Anything, notification.TemplateOrderRequest, "+2348098765432", mock.AnythingOfType("notification.OrderSummary")).
			Run(func(args mock.Arguments) { summary = args.Get(3).(notification.OrderSummary) }).
			Return(nil)

		require.NoError(t, f.handler.Handle(context.Background(), lastEvent(t, o)))

		assert.Equal(t, o.ID, summary.OrderID)
		assert.Equal(t, "Ada Stores", summary.ShopName)
		assert.Equal(t, "Amaka Obi", summary.CustomerName)
		require.Len(t, summary.Lines, 1)
		assert.Equal(t, "Ankara Tote Bag", summary.Lines[0].ProductName)
	})

	t.Run("gateway submission stays quiet", func(t *testing.T) {
		f := newNotifyFixture(t)
		o := f.newOrder(t, order.PaymentMethodGateway)

		require.NoError(t, f.handler.Handle(context.Background(), lastEvent(t, o)))
		f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("proof submission sends the proof announcement", func(t *testing.T) {
		f := newNotifyFixture(t)
		o := f.newOrder(t, order.PaymentMethodBankTransfer)
		require.NoError(t, o.MarkProofSent())

		f.dispatcher.On("Dispatch", mock.Anything, notification.TemplatePaymentProof, "+2348098765432", mock.Anything).Return(nil)

		require.NoError(t, f.handler.Handle(context.Background(), lastEvent(t, o)))
		f.dispatcher.AssertExpectations(t)
	})

	t.Run("gateway settlement sends the payment confirmation", func(t *testing.T) {
		f := newNotifyFixture(t)
		o := f.newOrder(t, order.PaymentMethodGateway)
		require.NoError(t, o.ConfirmGatewayPayment("ORDER_abc123"))

		var summary notification.OrderSummary
		f.dispatcher.On("Dispatch", mock.Anything, notification.TemplatePaymentSuccess, "+2348098765432", mock.Anything).
			Run(func(args mock.Arguments) { summary = args.Get(3).(notification.OrderSummary) }).
			Return(nil)

		require.NoError(t, f.handler.Handle(context.Background(), lastEvent(t, o)))
		assert.Equal(t, "ORDER_abc123", summary.PaymentReference)
	})

	t.Run("dispatch failure is swallowed", func(t *testing.T) {
		f := newNotifyFixture(t)
		o := f.newOrder(t, order.PaymentMethodOnDelivery)

		f.dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		assert.NoError(t, f.handler.Handle(context.Background(), lastEvent(t, o)))
	})

	t.Run("missing order fails the handler", func(t *testing.T) {
		f := newNotifyFixture(t)
		o := f.newOrder(t, order.PaymentMethodOnDelivery)
		event := lastEvent(t, o)

		// Replace the stubbed lookup with a not-found answer.
		f.orderRepo.ExpectedCalls = nil
		f.orderRepo.On("FindByIDForShop", mock.Anything, f.shopID, o.ID).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.handler.Handle(context.Background(), event), shared.ErrNotFound)
		f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
