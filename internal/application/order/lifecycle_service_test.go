package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ledgerapp "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
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

// MockLedgerRepository is a mock implementation of ledger.Repository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Insert(ctx context.Context, entry *ledger.RevenueEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByOrderAndReference(ctx context.Context, orderID uuid.UUID, paymentReference string) (*ledger.RevenueEntry, error) {
	args := m.Called(ctx, orderID, paymentReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.RevenueEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]ledger.RevenueEntry, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.RevenueEntry), args.Error(1)
}

func (m *MockLedgerRepository) BalanceForShop(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type lifecycleFixture struct {
	orderRepo  *MockOrderRepository
	ledgerRepo *MockLedgerRepository
	service    *LifecycleService
	shopID     uuid.UUID
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	f := &lifecycleFixture{
		orderRepo:  new(MockOrderRepository),
		ledgerRepo: new(MockLedgerRepository),
		shopID:     uuid.New(),
	}
	settlements := ledgerapp.NewSettlementService(f.ledgerRepo, zap.NewNop())
	f.service = NewLifecycleService(f.orderRepo, settlements, zap.NewNop())
	return f
}

// expectOrder registers the order as loadable and saveable for the
// fixture's shop.
func (f *lifecycleFixture) expectOrder(o *order.Order) {
	f.orderRepo.On("FindByIDForShop", mock.Anything, f.shopID, o.ID).Return(o, nil)
	f.orderRepo.On("Save", mock.Anything, o).Return(nil)
}

func createOrderInStatus(t *testing.T, f *lifecycleFixture, target order.OrderStatus, method order.PaymentMethod) *order.Order {
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

	if o.Status != target {
		if o.Status == order.OrderStatusAwaitingApproval {
			require.NoError(t, o.Approve())
		} else {
			require.NoError(t, o.MarkPaidManually(""))
		}
	}
	if o.Status != target {
		require.NoError(t, o.StartProcessing())
	}
	if o.Status != target {
		require.NoError(t, o.Ship())
	}
	require.Equal(t, target, o.Status)
	o.ClearDomainEvents()
	return o
}

func assertLifecycleCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func TestLifecycleService_Approve(t *testing.T) {
	t.Run("confirms an awaiting order", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusAwaitingApproval, order.PaymentMethodOnDelivery)
		f.expectOrder(o)

		resp, err := f.service.Approve(context.Background(), f.shopID, o.ID)
		require.NoError(t, err)

		assert.Equal(t, string(order.OrderStatusConfirmed), resp.Status)
		f.orderRepo.AssertCalled(t, "Save", mock.Anything, o)
	})

	t.Run("rejects a pending gateway order", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodGateway)
		f.expectOrder(o)

		_, err := f.service.Approve(context.Background(), f.shopID, o.ID)
		assertLifecycleCode(t, err, "INVALID_TRANSITION")
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newLifecycleFixture(t)
		missing := uuid.New()
		f.orderRepo.On("FindByIDForShop", mock.Anything, f.shopID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.Approve(context.Background(), f.shopID, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLifecycleService_MarkPaid(t *testing.T) {
	t.Run("confirms a bank transfer and writes the ledger", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodBankTransfer)
		f.expectOrder(o)
		f.ledgerRepo.On("Insert", mock.Anything, mock.AnythingOfType("*ledger.RevenueEntry")).Return(nil)

		resp, err := f.service.MarkPaid(context.Background(), f.shopID, o.ID, MarkPaidRequest{Reference: "UBA-00412"})
		require.NoError(t, err)

		assert.Equal(t, string(order.OrderStatusConfirmed), resp.Status)
		assert.Equal(t, string(order.PaymentStatusPaid), resp.PaymentStatus)
		assert.Equal(t, "UBA-00412", resp.PaymentReference)
		f.ledgerRepo.AssertNumberOfCalls(t, "Insert", 1)
	})

	t.Run("ledger failure does not fail the confirmation", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodBankTransfer)
		f.expectOrder(o)
		f.ledgerRepo.On("Insert", mock.Anything, mock.Anything).Return(assert.AnError)

		resp, err := f.service.MarkPaid(context.Background(), f.shopID, o.ID, MarkPaidRequest{})
		require.NoError(t, err)
		assert.Equal(t, string(order.PaymentStatusPaid), resp.PaymentStatus)
	})

	t.Run("duplicate confirmation rejected", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodBankTransfer)
		f.expectOrder(o)
		f.ledgerRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.MarkPaid(context.Background(), f.shopID, o.ID, MarkPaidRequest{})
		require.NoError(t, err)

		_, err = f.service.MarkPaid(context.Background(), f.shopID, o.ID, MarkPaidRequest{})
		assertLifecycleCode(t, err, "INVALID_TRANSITION")
	})
}

func TestLifecycleService_Fulfilment(t *testing.T) {
	t.Run("processing, shipping, delivery for a paid order", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodBankTransfer)
		require.NoError(t, o.MarkPaidManually("UBA-00412"))
		o.ClearDomainEvents()
		f.expectOrder(o)

		_, err := f.service.StartProcessing(context.Background(), f.shopID, o.ID)
		require.NoError(t, err)

		_, err = f.service.Ship(context.Background(), f.shopID, o.ID)
		require.NoError(t, err)

		resp, err := f.service.Deliver(context.Background(), f.shopID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, string(order.OrderStatusDelivered), resp.Status)

		// The transfer settled at MarkPaid time, not at delivery.
		f.ledgerRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("cash on delivery settles at the door", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusOutForDelivery, order.PaymentMethodOnDelivery)
		f.expectOrder(o)
		f.ledgerRepo.On("Insert", mock.Anything, mock.AnythingOfType("*ledger.RevenueEntry")).Return(nil)

		resp, err := f.service.Deliver(context.Background(), f.shopID, o.ID)
		require.NoError(t, err)

		assert.Equal(t, string(order.OrderStatusDelivered), resp.Status)
		assert.Equal(t, string(order.PaymentStatusPaid), resp.PaymentStatus)
		assert.Contains(t, resp.PaymentReference, "COD_")
		f.ledgerRepo.AssertNumberOfCalls(t, "Insert", 1)
	})

	t.Run("ship rejected before processing", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusConfirmed, order.PaymentMethodOnDelivery)
		f.expectOrder(o)

		_, err := f.service.Ship(context.Background(), f.shopID, o.ID)
		assertLifecycleCode(t, err, "INVALID_TRANSITION")
	})
}

func TestLifecycleService_Cancel(t *testing.T) {
	t.Run("owner cancels with a reason", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusAwaitingApproval, order.PaymentMethodOnDelivery)
		f.expectOrder(o)

		resp, err := f.service.Cancel(context.Background(), f.shopID, o.ID, CancelOrderRequest{By: "OWNER", Reason: "out of stock"})
		require.NoError(t, err)

		assert.Equal(t, string(order.OrderStatusCancelled), resp.Status)
		assert.Equal(t, "OWNER", resp.CancelledBy)
		assert.Equal(t, "out of stock", resp.CancelReason)
	})

	t.Run("unknown party rejected", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusAwaitingApproval, order.PaymentMethodOnDelivery)

		_, err := f.service.Cancel(context.Background(), f.shopID, o.ID, CancelOrderRequest{By: "ADMIN"})
		assertLifecycleCode(t, err, "INVALID_INPUT")
		f.orderRepo.AssertNotCalled(t, "FindByIDForShop", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusOutForDelivery, order.PaymentMethodOnDelivery)
		require.NoError(t, o.Deliver())
		o.ClearDomainEvents()
		f.expectOrder(o)

		_, err := f.service.Cancel(context.Background(), f.shopID, o.ID, CancelOrderRequest{By: "CUSTOMER"})
		assertLifecycleCode(t, err, "INVALID_TRANSITION")
	})
}

func TestLifecycleService_List(t *testing.T) {
	t.Run("applies defaults and maps filters", func(t *testing.T) {
		f := newLifecycleFixture(t)
		o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodGateway)

		var captured shared.Filter
		f.orderRepo.On("FindAllForShop", mock.Anything, f.shopID, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(2).(shared.Filter) }).
			Return([]order.Order{*o}, nil)
		f.orderRepo.On("CountForShop", mock.Anything, f.shopID, mock.Anything).Return(int64(1), nil)

		status := order.OrderStatusPending
		items, total, err := f.service.List(context.Background(), f.shopID, OrderListFilter{Status: &status})
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, string(order.OrderStatusPending), items[0].Status)
		assert.Equal(t, 1, captured.Page)
		assert.Equal(t, 20, captured.PageSize)
		assert.Equal(t, "created_at", captured.OrderBy)
		assert.Equal(t, "desc", captured.OrderDir)
		assert.Equal(t, "PENDING", captured.Filters["status"])
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.orderRepo.On("FindAllForShop", mock.Anything, f.shopID, mock.Anything).Return(nil, assert.AnError)

		_, _, err := f.service.List(context.Background(), f.shopID, OrderListFilter{})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestLifecycleService_GetByID(t *testing.T) {
	f := newLifecycleFixture(t)
	o := createOrderInStatus(t, f, order.OrderStatusPending, order.PaymentMethodBankTransfer)
	f.orderRepo.On("FindByIDForShop", mock.Anything, f.shopID, o.ID).Return(o, nil)

	resp, err := f.service.GetByID(context.Background(), f.shopID, o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.ID, resp.ID)
	assert.Equal(t, "Amaka Obi", resp.CustomerName)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(15000)))
}
