package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modernshop/storefront-api/internal/models"
	"github.com/modernshop/storefront-api/internal/utils"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListRelatedProducts(ctx context.Context, categoryID, excludeID int64, limit int) ([]models.RelatedProduct, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]*models.Product, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]*models.ProductSuggestion, error)
	GetProductStock(ctx context.Context, id int64) (*models.ProductStock, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.original_price,
		p.image_url, p.stock_quantity, p.rating, p.review_count,
		p.created_at, p.updated_at,
		c.id, c.name`

func (r *productRepository) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	predicate := productPredicate(filter)

	// Identical predicate, no join, no paging.
	countQuery := `SELECT COUNT(*) FROM products p` + predicate.Where()

	var total int

	err := r.DB.QueryRowContext(dbCtx, countQuery, predicate.Args()...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		productColumns,
		predicate.Where(),
		sortColumn(filter.SortBy),
		sortDirection(filter.SortOrder),
		predicate.NextPlaceholder(),
		predicate.NextPlaceholder()+1,
	)

	args := append(predicate.Args(), filter.Limit, filter.Offset())

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.name, p.description, p.price, p.original_price,
		p.image_url, p.stock_quantity, p.rating, p.review_count,
		p.created_at, p.updated_at,
		c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1 AND p.is_active = true`

	product := &models.Product{}

	var originalPrice sql.NullFloat64
	var categoryID sql.NullInt64
	var categoryName, categoryDescription sql.NullString

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &originalPrice,
		&product.ImageURL, &product.StockQuantity, &product.Rating, &product.ReviewCount,
		&product.CreatedAt, &product.UpdatedAt,
		&categoryID, &categoryName, &categoryDescription,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}

	if originalPrice.Valid {
		product.OriginalPrice = &originalPrice.Float64
	}

	if categoryID.Valid {
		product.Category = &models.CategoryRef{
			ID:          categoryID.Int64,
			Name:        categoryName.String,
			Description: categoryDescription.String,
		}
	}

	return product, nil
}

func (r *productRepository) ListRelatedProducts(ctx context.Context, categoryID, excludeID int64, limit int) ([]models.RelatedProduct, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, price, original_price, image_url, rating, review_count
		FROM products
		WHERE category_id = $1 AND id != $2 AND is_active = true
		ORDER BY rating DESC
		LIMIT $3`

	rows, err := r.DB.QueryContext(dbCtx, query, categoryID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying related products: %w", err)
	}

	defer rows.Close()

	var related []models.RelatedProduct

	for rows.Next() {
		var rp models.RelatedProduct
		var originalPrice sql.NullFloat64

		err := rows.Scan(&rp.ID, &rp.Name, &rp.Price, &originalPrice, &rp.ImageURL, &rp.Rating, &rp.ReviewCount)
		if err != nil {
			return nil, err
		}

		if originalPrice.Valid {
			rp.OriginalPrice = &originalPrice.Float64
		}

		related = append(related, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return related, nil
}

// ListFeaturedProducts ranks highly-rated, well-reviewed products. The
// rating-weighted ordering runs in SQL, not here.
func (r *productRepository) ListFeaturedProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_active = true AND p.rating >= 4.0 AND p.review_count >= 100
		ORDER BY (p.rating * LOG(p.review_count + 1)) DESC
		LIMIT $1`, productColumns)

	rows, err := r.DB.QueryContext(dbCtx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying featured products: %w", err)
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// SearchProducts returns name-match suggestions, prefix matches first.
func (r *productRepository) SearchProducts(ctx context.Context, term string, limit int) ([]*models.ProductSuggestion, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, price, image_url
		FROM products
		WHERE name ILIKE $1 AND is_active = true
		ORDER BY
			CASE
				WHEN name ILIKE $2 THEN 1
				WHEN name ILIKE $1 THEN 2
				ELSE 3
			END,
			rating DESC
		LIMIT $3`

	rows, err := r.DB.QueryContext(dbCtx, query, "%"+term+"%", term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying product suggestions: %w", err)
	}

	defer rows.Close()

	var suggestions []*models.ProductSuggestion

	for rows.Next() {
		suggestion := &models.ProductSuggestion{}

		err := rows.Scan(&suggestion.ID, &suggestion.Name, &suggestion.Price, &suggestion.ImageURL)
		if err != nil {
			return nil, err
		}

		suggestions = append(suggestions, suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return suggestions, nil
}

func (r *productRepository) GetProductStock(ctx context.Context, id int64) (*models.ProductStock, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, name, stock_quantity, is_active FROM products WHERE id = $1`

	stock := &models.ProductStock{}

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&stock.ID, &stock.Name, &stock.StockQuantity, &stock.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying product stock: %w", err)
	}

	return stock, nil
}

func scanProduct(rows *sql.Rows) (*models.Product, error) {
	product := &models.Product{}

	var originalPrice sql.NullFloat64
	var categoryID sql.NullInt64
	var categoryName sql.NullString

	err := rows.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &originalPrice,
		&product.ImageURL, &product.StockQuantity, &product.Rating, &product.ReviewCount,
		&product.CreatedAt, &product.UpdatedAt,
		&categoryID, &categoryName,
	)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		product.OriginalPrice = &originalPrice.Float64
	}

	if categoryID.Valid {
		product.Category = &models.CategoryRef{ID: categoryID.Int64, Name: categoryName.String}
	}

	return product, nil
}
