package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

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

func createPaidOrder(t *testing.T) *order.Order {
	contact := valueobject.NewCustomerContact("Amaka Obi", "amaka@example.com", "+2348012345678", "12 Allen Avenue, Ikeja")
	o, err := order.NewOrder(uuid.New(), contact, valueobject.NGN)
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Ankara Tote Bag", 2, valueobject.NewMoneyNGNFromFloat(7500))
	require.NoError(t, err)
	require.NoError(t, o.SubmitPendingPayment(order.PaymentMethodGateway))
	require.NoError(t, o.ConfirmGatewayPayment("ORDER_abc123"))
	return o
}

func TestSettlementService_RecordSettlement(t *testing.T) {
	t.Run("writes one entry for a paid order", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		service := NewSettlementService(repo, zap.NewNop())
		o := createPaidOrder(t)

		var inserted *ledger.RevenueEntry
		repo.On("Insert", mock.Anything, mock.AnythingOfType("*ledger.RevenueEntry")).
			Run(func(args mock.Arguments) { inserted = args.Get(1).(*ledger.RevenueEntry) }).
			Return(nil)

		entry, err := service.RecordSettlement(context.Background(), o)
		require.NoError(t, err)

		assert.Equal(t, o.ID, entry.OrderID)
		assert.Equal(t, o.ShopID, entry.ShopID)
		assert.Equal(t, "ORDER_abc123", entry.PaymentReference)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(15000)))
		assert.Same(t, entry, inserted)
	})

	t.Run("absorbs a replay and returns the existing entry", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		service := NewSettlementService(repo, zap.NewNop())
		o := createPaidOrder(t)

		existing, err := ledger.NewRevenueEntry(o.ShopID, o.ID, o.GetTotalAmountMoney(), o.PaymentReference, o.PaymentMethod)
		require.NoError(t, err)

		repo.On("Insert", mock.Anything, mock.Anything).Return(ledger.ErrDuplicateEntry)
		repo.On("FindByOrderAndReference", mock.Anything, o.ID, "ORDER_abc123").Return(existing, nil)

		entry, err := service.RecordSettlement(context.Background(), o)
		require.NoError(t, err)
		assert.Same(t, existing, entry)
	})

	t.Run("rejects an unpaid order", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		service := NewSettlementService(repo, zap.NewNop())

		contact := valueobject.NewCustomerContact("Amaka Obi", "amaka@example.com", "+2348012345678", "12 Allen Avenue, Ikeja")
		o, err := order.NewOrder(uuid.New(), contact, valueobject.NGN)
		require.NoError(t, err)

		_, err = service.RecordSettlement(context.Background(), o)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ORDER_NOT_PAID", derr.Code)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("storage failure maps to ledger write failure", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		service := NewSettlementService(repo, zap.NewNop())
		o := createPaidOrder(t)

		repo.On("Insert", mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := service.RecordSettlement(context.Background(), o)
		assert.ErrorIs(t, err, shared.ErrLedgerWriteFailure)
	})
}

func TestSettlementService_ListEntries(t *testing.T) {
	repo := new(MockLedgerRepository)
	service := NewSettlementService(repo, zap.NewNop())
	shopID := uuid.New()

	entry, err := ledger.NewRevenueEntry(shopID, uuid.New(), valueobject.NewMoneyNGNFromFloat(15000), "ORDER_abc123", order.PaymentMethodGateway)
	require.NoError(t, err)

	repo.On("ListForShop", mock.Anything, shopID, mock.Anything).Return([]ledger.RevenueEntry{*entry}, nil)

	entries, err := service.ListEntries(context.Background(), shopID, shared.DefaultFilter())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, entry.OrderID, entries[0].OrderID)
	assert.Equal(t, "SALE", entries[0].TransactionType)
}

func TestSettlementService_Balance(t *testing.T) {
	repo := new(MockLedgerRepository)
	service := NewSettlementService(repo, zap.NewNop())
	shopID := uuid.New()

	repo.On("BalanceForShop", mock.Anything, shopID).Return(decimal.NewFromInt(42500), nil)

	balance, err := service.Balance(context.Background(), shopID)
	require.NoError(t, err)

	assert.Equal(t, shopID, balance.ShopID)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(42500)))
}
