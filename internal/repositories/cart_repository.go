package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modernshop/storefront-api/internal/models"
	"github.com/modernshop/storefront-api/internal/utils"
)

type CartRepository interface {
	ListCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error)
	GetCartLine(ctx context.Context, userID, productID int64) (*models.CartLine, error)
	GetCartLineStock(ctx context.Context, itemID, userID int64) (*models.CartLineStock, error)
	InsertCartItem(ctx context.Context, userID, productID int64, quantity int) error
	UpdateCartItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteCartItem(ctx context.Context, itemID, userID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// ListCartItems re-joins every line against the live product; lines whose
// product has gone inactive simply drop out of the read.
func (r *cartRepository) ListCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.quantity, ci.created_at, ci.updated_at,
		p.id, p.name, p.price, p.original_price,
		p.image_url, p.stock_quantity,
		c.name
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE ci.user_id = $1 AND p.is_active = true
		ORDER BY ci.created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}

	defer rows.Close()

	var items []*models.CartItem

	for rows.Next() {
		item := &models.CartItem{}

		var originalPrice sql.NullFloat64
		var categoryName sql.NullString

		err := rows.Scan(
			&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Price, &originalPrice,
			&item.Product.ImageURL, &item.Product.StockQuantity,
			&categoryName,
		)
		if err != nil {
			return nil, err
		}

		if originalPrice.Valid {
			item.Product.OriginalPrice = &originalPrice.Float64
		}

		item.Product.CategoryName = categoryName.String

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepository) GetCartLine(ctx context.Context, userID, productID int64) (*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`

	line := &models.CartLine{}

	err := r.DB.QueryRowContext(dbCtx, query, userID, productID).Scan(&line.ID, &line.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying cart line: %w", err)
	}

	return line, nil
}

func (r *cartRepository) GetCartLineStock(ctx context.Context, itemID, userID int64) (*models.CartLineStock, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.product_id, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.id = $1 AND ci.user_id = $2`

	line := &models.CartLineStock{}

	err := r.DB.QueryRowContext(dbCtx, query, itemID, userID).Scan(&line.ID, &line.ProductID, &line.Quantity, &line.StockQuantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying cart line stock: %w", err)
	}

	return line, nil
}

func (r *cartRepository) InsertCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64

	return r.DB.QueryRowContext(dbCtx, query, userID, productID, quantity).Scan(&id)
}

func (r *cartRepository) UpdateCartItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) DeleteCartItem(ctx context.Context, itemID, userID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ClearCart deletes every line for the user; zero rows affected is not an
// error.
func (r *cartRepository) ClearCart(ctx context.Context, userID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE user_id = $1`

	_, err := r.DB.ExecContext(dbCtx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
