package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/modernshop/storefront-api/internal/models"
	repository "github.com/modernshop/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRows = []string{
	"id", "name", "description", "price", "original_price",
	"image_url", "stock_quantity", "rating", "review_count",
	"created_at", "updated_at",
	"category_id", "category_name",
}

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewProductRepo(db)
	require.NotNil(t, repo, "NewProductRepo should return a non-nil repository")

	return repo, mock
}

func TestListProducts(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	t.Run("Success - Default Filter", func(t *testing.T) {
		// Arrange
		filter := &models.ProductFilter{}
		filter.Normalize()

		countSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products p WHERE p.is_active = true`)
		pageSQL := regexp.QuoteMeta(`ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`)

		mock.ExpectQuery(countSQL).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
		mock.ExpectQuery(pageSQL).
			WithArgs(12, 0).
			WillReturnRows(sqlmock.NewRows(productRows).
				AddRow(1, "Keyboard", "Mechanical keyboard", 79.99, 99.99, "/img/kb.png", 15, 4.5, 230, now, now, 2, "Accessories").
				AddRow(2, "Mouse", "Wireless mouse", 29.99, nil, "/img/mouse.png", 40, 4.2, 120, now, now, nil, nil))

		// Act
		products, total, err := repo.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, products, 2)
		assert.Equal(t, "Keyboard", products[0].Name)
		require.NotNil(t, products[0].OriginalPrice)
		assert.InDelta(t, 99.99, *products[0].OriginalPrice, 0.001)
		require.NotNil(t, products[0].Category)
		assert.Equal(t, "Accessories", products[0].Category.Name)
		assert.Nil(t, products[1].OriginalPrice, "NULL original price should stay nil")
		assert.Nil(t, products[1].Category, "Uncategorized product should carry no category")
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Success - Search And Price Filter", func(t *testing.T) {
		// Arrange
		minPrice := 10.0
		filter := &models.ProductFilter{
			MinPrice:  &minPrice,
			Search:    "usb",
			SortBy:    "price",
			SortOrder: "asc",
			Page:      2,
			Limit:     5,
		}
		filter.Normalize()

		countSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products p WHERE p.is_active = true AND p.price >= $1 AND (p.name ILIKE $2 OR p.description ILIKE $2)`)
		pageSQL := regexp.QuoteMeta(`ORDER BY p.price ASC LIMIT $3 OFFSET $4`)

		mock.ExpectQuery(countSQL).
			WithArgs(minPrice, "%usb%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
		mock.ExpectQuery(pageSQL).
			WithArgs(minPrice, "%usb%", 5, 5).
			WillReturnRows(sqlmock.NewRows(productRows).
				AddRow(3, "USB Hub", "4-port hub", 19.99, nil, "/img/hub.png", 8, 4.0, 50, now, now, 2, "Accessories"))

		// Act
		products, total, err := repo.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		require.Len(t, products, 1)
		assert.Equal(t, "USB Hub", products[0].Name)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Success - Empty Page", func(t *testing.T) {
		// Arrange
		filter := &models.ProductFilter{Page: 99}
		filter.Normalize()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products p`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
			WithArgs(12, 98*12).
			WillReturnRows(sqlmock.NewRows(productRows))

		// Act
		products, total, err := repo.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, products)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Count Query Error", func(t *testing.T) {
		// Arrange
		filter := &models.ProductFilter{}
		filter.Normalize()

		dbError := errors.New("database connection lost")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products p`)).
			WillReturnError(dbError)

		// Act
		products, total, err := repo.ListProducts(ctx, filter)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		assert.Zero(t, total)
		assert.Nil(t, products)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetProductByID(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	expectedSQL := regexp.QuoteMeta(`WHERE p.id = $1 AND p.is_active = true`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{
			"id", "name", "description", "price", "original_price",
			"image_url", "stock_quantity", "rating", "review_count",
			"created_at", "updated_at",
			"category_id", "category_name", "category_description",
		}).AddRow(1, "Keyboard", "Mechanical keyboard", 79.99, 99.99, "/img/kb.png", 15, 4.5, 230, now, now, 2, "Accessories", "Desk accessories")

		mock.ExpectQuery(expectedSQL).WithArgs(int64(1)).WillReturnRows(rows)

		// Act
		product, err := repo.GetProductByID(ctx, 1)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, int64(1), product.ID)
		require.NotNil(t, product.Category)
		assert.Equal(t, "Desk accessories", product.Category.Description)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)

		// Act
		product, err := repo.GetProductByID(ctx, 42)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, product)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestListRelatedProducts(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`WHERE category_id = $1 AND id != $2 AND is_active = true ORDER BY rating DESC LIMIT $3`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{"id", "name", "price", "original_price", "image_url", "rating", "review_count"}).
			AddRow(5, "Mouse Pad", 9.99, nil, "/img/pad.png", 4.8, 300).
			AddRow(6, "Wrist Rest", 14.99, 19.99, "/img/rest.png", 4.1, 90)

		mock.ExpectQuery(expectedSQL).WithArgs(int64(2), int64(1), 4).WillReturnRows(rows)

		// Act
		related, err := repo.ListRelatedProducts(ctx, 2, 1, 4)

		// Assert
		require.NoError(t, err)
		require.Len(t, related, 2)
		assert.Equal(t, "Mouse Pad", related[0].Name)
		assert.Nil(t, related[0].OriginalPrice)
		require.NotNil(t, related[1].OriginalPrice)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database query error")
		mock.ExpectQuery(expectedSQL).WithArgs(int64(2), int64(1), 4).WillReturnError(dbError)

		// Act
		related, err := repo.ListRelatedProducts(ctx, 2, 1, 4)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, related)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestListFeaturedProducts(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	expectedSQL := regexp.QuoteMeta(`WHERE p.is_active = true AND p.rating >= 4.0 AND p.review_count >= 100 ORDER BY (p.rating * LOG(p.review_count + 1)) DESC LIMIT $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows(productRows).
			AddRow(1, "Keyboard", "Mechanical keyboard", 79.99, nil, "/img/kb.png", 15, 4.9, 500, now, now, 2, "Accessories")

		mock.ExpectQuery(expectedSQL).WithArgs(8).WillReturnRows(rows)

		// Act
		products, err := repo.ListFeaturedProducts(ctx, 8)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Keyboard", products[0].Name)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database query error")
		mock.ExpectQuery(expectedSQL).WithArgs(8).WillReturnError(dbError)

		// Act
		products, err := repo.ListFeaturedProducts(ctx, 8)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, products)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestSearchProducts(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`WHERE name ILIKE $1 AND is_active = true`)

	t.Run("Success - Prefix Match First", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{"id", "name", "price", "image_url"}).
			AddRow(1, "Phone Case", 12.99, "/img/case.png").
			AddRow(2, "Headphones", 59.99, "/img/head.png")

		mock.ExpectQuery(expectedSQL).WithArgs("%phone%", "phone%", 10).WillReturnRows(rows)

		// Act
		suggestions, err := repo.SearchProducts(ctx, "phone", 10)

		// Assert
		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "Phone Case", suggestions[0].Name)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database query error")
		mock.ExpectQuery(expectedSQL).WithArgs("%phone%", "phone%", 10).WillReturnError(dbError)

		// Act
		suggestions, err := repo.SearchProducts(ctx, "phone", 10)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, suggestions)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetProductStock(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	expectedSQL := regexp.QuoteMeta(`SELECT id, name, stock_quantity, is_active FROM products WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{"id", "name", "stock_quantity", "is_active"}).
			AddRow(1, "Keyboard", 15, true)

		mock.ExpectQuery(expectedSQL).WithArgs(int64(1)).WillReturnRows(rows)

		// Act
		stock, err := repo.GetProductStock(ctx, 1)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, stock)
		assert.Equal(t, 15, stock.StockQuantity)
		assert.True(t, stock.IsActive)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)

		// Act
		stock, err := repo.GetProductStock(ctx, 42)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, stock)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}
