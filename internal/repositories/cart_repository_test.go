package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/modernshop/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewCartRepo(db)
	require.NotNil(t, repo, "NewCartRepo should return a non-nil repository")

	return repo, mock
}

func TestListCartItems(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	expectedSQL := regexp.QuoteMeta(`WHERE ci.user_id = $1 AND p.is_active = true ORDER BY ci.created_at DESC`)

	cartItemRows := []string{
		"id", "quantity", "created_at", "updated_at",
		"product_id", "product_name", "price", "original_price",
		"image_url", "stock_quantity",
		"category_name",
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows(cartItemRows).
			AddRow(10, 2, now, now, 1, "Keyboard", 79.99, 99.99, "/img/kb.png", 15, "Accessories").
			AddRow(11, 1, now, now, 2, "Mouse", 29.99, nil, "/img/mouse.png", 40, nil)

		mock.ExpectQuery(expectedSQL).WithArgs(int64(7)).WillReturnRows(rows)

		// Act
		items, err := repo.ListCartItems(ctx, 7)

		// Assert
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(10), items[0].ID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, "Keyboard", items[0].Product.Name)
		require.NotNil(t, items[0].Product.OriginalPrice)
		assert.Equal(t, "Accessories", items[0].Product.CategoryName)
		assert.Nil(t, items[1].Product.OriginalPrice)
		assert.Empty(t, items[1].Product.CategoryName)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Success - Empty Cart", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).WithArgs(int64(7)).WillReturnRows(sqlmock.NewRows(cartItemRows))

		// Act
		items, err := repo.ListCartItems(ctx, 7)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, items)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database query error")
		mock.ExpectQuery(expectedSQL).WithArgs(int64(7)).WillReturnError(dbError)

		// Act
		items, err := repo.ListCartItems(ctx, 7)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, items)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetCartLine(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`SELECT id, quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{"id", "quantity"}).AddRow(10, 3)
		mock.ExpectQuery(expectedSQL).WithArgs(int64(7), int64(1)).WillReturnRows(rows)

		// Act
		line, err := repo.GetCartLine(ctx, 7, 1)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, line)
		assert.Equal(t, int64(10), line.ID)
		assert.Equal(t, 3, line.Quantity)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).WithArgs(int64(7), int64(1)).WillReturnError(sql.ErrNoRows)

		// Act
		line, err := repo.GetCartLine(ctx, 7, 1)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, line)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetCartLineStock(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`WHERE ci.id = $1 AND ci.user_id = $2`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{"id", "product_id", "quantity", "stock_quantity"}).
			AddRow(10, 1, 3, 15)
		mock.ExpectQuery(expectedSQL).WithArgs(int64(10), int64(7)).WillReturnRows(rows)

		// Act
		line, err := repo.GetCartLineStock(ctx, 10, 7)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, line)
		assert.Equal(t, int64(1), line.ProductID)
		assert.Equal(t, 15, line.StockQuantity)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Not Owned Or Missing", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).WithArgs(int64(10), int64(8)).WillReturnError(sql.ErrNoRows)

		// Act
		line, err := repo.GetCartLineStock(ctx, 10, 8)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, line)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestInsertCartItem(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).
			WithArgs(int64(7), int64(1), 2).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

		// Act
		err := repo.InsertCartItem(ctx, 7, 1, 2)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database insertion error")
		mock.ExpectQuery(expectedSQL).
			WithArgs(int64(7), int64(1), 2).
			WillReturnError(dbError)

		// Act
		err := repo.InsertCartItem(ctx, 7, 1, 2)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestUpdateCartItemQuantity(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock.ExpectExec(expectedSQL).
			WithArgs(5, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.UpdateCartItemQuantity(ctx, 10, 5)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - No Rows Affected", func(t *testing.T) {
		// Arrange
		mock.ExpectExec(expectedSQL).
			WithArgs(5, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.UpdateCartItemQuantity(ctx, 10, 5)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database update error")
		mock.ExpectExec(expectedSQL).
			WithArgs(5, int64(10)).
			WillReturnError(dbError)

		// Act
		err := repo.UpdateCartItemQuantity(ctx, 10, 5)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestDeleteCartItem(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock.ExpectExec(expectedSQL).
			WithArgs(int64(10), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.DeleteCartItem(ctx, 10, 7)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - No Rows Affected", func(t *testing.T) {
		// Arrange
		mock.ExpectExec(expectedSQL).
			WithArgs(int64(10), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.DeleteCartItem(ctx, 10, 7)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestClearCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`DELETE FROM cart_items WHERE user_id = $1`)

	t.Run("Success - Empty Cart Is Not An Error", func(t *testing.T) {
		// Arrange
		mock.ExpectExec(expectedSQL).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.ClearCart(ctx, 7)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database delete error")
		mock.ExpectExec(expectedSQL).
			WithArgs(int64(7)).
			WillReturnError(dbError)

		// Act
		err := repo.ClearCart(ctx, 7)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}
