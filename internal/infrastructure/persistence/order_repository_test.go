package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

func orderRows(orderID, shopID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "shop_id", "version", "customer_name", "customer_email", "customer_phone",
		"delivery_address", "total_amount", "currency", "status", "payment_status",
		"payment_method", "payment_reference", "proof_sent", "created_at", "updated_at",
	}).AddRow(
		orderID, shopID, 1, "Amaka Obi", "amaka@example.com", "+2348012345678",
		"12 Allen Avenue, Ikeja", decimal.NewFromInt(15000), "NGN", "PENDING", "UNPAID",
		"BANK_TRANSFER", "", false, time.Now(), time.Now(),
	)
}

func itemRows(orderID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "amount", "created_at",
	}).AddRow(
		uuid.New(), orderID, uuid.New(), "Ankara Tote Bag", 2,
		decimal.NewFromInt(7500), decimal.NewFromInt(15000), time.Now(),
	)
}

func TestGormOrderRepository_FindByIDForShop(t *testing.T) {
	t.Run("finds order with items in shop scope", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE shop_id = \$1 AND id = \$2.*LIMIT`).
			WithArgs(shopID, orderID, 1).
			WillReturnRows(orderRows(orderID, shopID))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(itemRows(orderID))

		o, err := repo.FindByIDForShop(context.Background(), shopID, orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, o.ID)
		assert.Equal(t, shopID, o.ShopID)
		assert.Equal(t, order.OrderStatusPending, o.Status)
		assert.Equal(t, order.PaymentMethodBankTransfer, o.PaymentMethod)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Ankara Tote Bag", o.Items[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not leak orders across shops", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE shop_id = \$1 AND id = \$2`).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByIDForShop(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, o)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)

	orderID := uuid.New()
	shopID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1.*LIMIT`).
		WithArgs(orderID, 1).
		WillReturnRows(orderRows(orderID, shopID))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WithArgs(orderID).
		WillReturnRows(itemRows(orderID))

	o, err := repo.FindByID(context.Background(), orderID)

	require.NoError(t, err)
	assert.Equal(t, orderID, o.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_FindByPaymentReference(t *testing.T) {
	t.Run("finds the order holding the reference", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE payment_reference = \$1.*LIMIT`).
			WithArgs("ORDER_abc123_1700000000", 1).
			WillReturnRows(orderRows(orderID, shopID))
		mock.ExpectQuery(`SELECT \* FROM "order_items"`).
			WithArgs(orderID).
			WillReturnRows(itemRows(orderID))

		o, err := repo.FindByPaymentReference(context.Background(), "ORDER_abc123_1700000000")

		require.NoError(t, err)
		assert.Equal(t, orderID, o.ID)
		require.Len(t, o.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown reference maps to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE payment_reference = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByPaymentReference(context.Background(), "ORDER_unknown_0")

		assert.Nil(t, o)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_FindAllForShop(t *testing.T) {
	t.Run("applies status filter and pagination", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE shop_id = \$1 AND status = \$2 ORDER BY created_at desc LIMIT`).
			WithArgs(shopID, "PENDING", 20).
			WillReturnRows(orderRows(orderID, shopID))
		mock.ExpectQuery(`SELECT \* FROM "order_items"`).
			WithArgs(orderID).
			WillReturnRows(itemRows(orderID))

		filter := shared.Filter{
			Page:     1,
			PageSize: 20,
			Filters:  map[string]interface{}{"status": "PENDING"},
		}
		orders, err := repo.FindAllForShop(context.Background(), shopID, filter)

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.OrderStatusPending, orders[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("searches by customer name or phone", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE shop_id = \$1 AND \(customer_name ILIKE \$2 OR customer_phone LIKE \$3\)`).
			WithArgs(shopID, "%Amaka%", "%Amaka%", 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := shared.Filter{
			Page:     1,
			PageSize: 20,
			Filters:  map[string]interface{}{"search": "Amaka"},
		}
		orders, err := repo.FindAllForShop(context.Background(), shopID, filter)

		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestGormOrderRepository_CountForShop(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)

	shopID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE shop_id = \$1 AND payment_status = \$2`).
		WithArgs(shopID, "PAID").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	filter := shared.Filter{Filters: map[string]interface{}{"payment_status": "PAID"}}
	count, err := repo.CountForShop(context.Background(), shopID, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
