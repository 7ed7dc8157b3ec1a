package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shop"
)

func createTestSession(t *testing.T) *Session {
	cart, err := NewCartSnapshot(testCartLines(), valueobject.NGN)
	require.NoError(t, err)
	session, err := NewSession(uuid.New(), cart)
	require.NoError(t, err)
	return session
}

func TestNewSession(t *testing.T) {
	t.Run("starts over a cart snapshot", func(t *testing.T) {
		session := createTestSession(t)

		assert.NotEqual(t, uuid.Nil, session.ID)
		assert.Equal(t, uuid.Nil, session.OrderID)
		assert.False(t, session.Completed)
		assert.False(t, session.InitializingPayment)
		assert.False(t, session.CartCleared())
	})

	t.Run("rejects nil shop", func(t *testing.T) {
		cart, err := NewCartSnapshot(testCartLines(), valueobject.NGN)
		require.NoError(t, err)

		_, err = NewSession(uuid.Nil, cart)
		assertCheckoutCode(t, err, "INVALID_SHOP")
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		_, err := NewSession(uuid.New(), nil)
		assertCheckoutCode(t, err, "EMPTY_CART")
	})
}

func TestSession_AttachOrder(t *testing.T) {
	t.Run("binds order and method", func(t *testing.T) {
		session := createTestSession(t)
		orderID := uuid.New()

		require.NoError(t, session.AttachOrder(orderID, order.PaymentMethodGateway))

		assert.Equal(t, orderID, session.OrderID)
		assert.Equal(t, order.PaymentMethodGateway, session.Method)
	})

	t.Run("rejects second attachment", func(t *testing.T) {
		session := createTestSession(t)
		require.NoError(t, session.AttachOrder(uuid.New(), order.PaymentMethodGateway))

		err := session.AttachOrder(uuid.New(), order.PaymentMethodBankTransfer)
		assertCheckoutCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects nil order", func(t *testing.T) {
		session := createTestSession(t)
		assertCheckoutCode(t, session.AttachOrder(uuid.Nil, order.PaymentMethodGateway), "INVALID_ORDER")
	})
}

func TestSession_PaymentAttempt(t *testing.T) {
	t.Run("records in-flight attempt", func(t *testing.T) {
		session := createTestSession(t)
		require.NoError(t, session.AttachOrder(uuid.New(), order.PaymentMethodGateway))

		require.NoError(t, session.BeginPaymentAttempt("ORDER_abc123"))

		assert.True(t, session.InitializingPayment)
		require.NotNil(t, session.Attempt)
		assert.Equal(t, "ORDER_abc123", session.Attempt.Reference)
		assert.Equal(t, order.PaymentMethodGateway, session.Attempt.Method)
	})

	t.Run("rejected before order attached", func(t *testing.T) {
		session := createTestSession(t)
		assertCheckoutCode(t, session.BeginPaymentAttempt("ORDER_abc123"), "INVALID_STATE")
	})

	t.Run("rejects concurrent attempts", func(t *testing.T) {
		session := createTestSession(t)
		require.NoError(t, session.AttachOrder(uuid.New(), order.PaymentMethodGateway))
		require.NoError(t, session.BeginPaymentAttempt("ORDER_abc123"))

		assertCheckoutCode(t, session.BeginPaymentAttempt("ORDER_def456"), "INVALID_STATE")
	})

	t.Run("end clears the initializing flag", func(t *testing.T) {
		session := createTestSession(t)
		require.NoError(t, session.AttachOrder(uuid.New(), order.PaymentMethodGateway))
		require.NoError(t, session.BeginPaymentAttempt("ORDER_abc123"))

		session.EndPaymentAttempt()

		assert.False(t, session.InitializingPayment)
		require.NoError(t, session.BeginPaymentAttempt("ORDER_def456"))
	})
}

func TestSession_SurfaceBankDetails(t *testing.T) {
	session := createTestSession(t)
	details := shop.BankDetails{
		BankName:      "GTBank",
		AccountName:   "Ada Stores",
		AccountNumber: "0123456789",
	}

	session.SurfaceBankDetails(details)

	require.NotNil(t, session.BankDetails)
	assert.Equal(t, "GTBank", session.BankDetails.BankName)

	// The session holds its own copy.
	details.BankName = "Zenith"
	assert.Equal(t, "GTBank", session.BankDetails.BankName)
}

func TestSession_Complete(t *testing.T) {
	t.Run("marks completed and clears cart", func(t *testing.T) {
		session := createTestSession(t)

		require.NoError(t, session.Complete())

		assert.True(t, session.Completed)
		assert.True(t, session.CartCleared())
		require.NotNil(t, session.CompletedAt)
	})

	t.Run("rejects double completion", func(t *testing.T) {
		session := createTestSession(t)
		require.NoError(t, session.Complete())
		assertCheckoutCode(t, session.Complete(), "INVALID_STATE")
	})
}

func TestSession_ClearCart(t *testing.T) {
	session := createTestSession(t)
	session.ClearCart()
	assert.True(t, session.CartCleared())
	assert.False(t, session.Completed)
}
