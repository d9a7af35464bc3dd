package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modernshop/storefront-api/internal/models"
	"github.com/modernshop/storefront-api/internal/utils"
)

type CategoryRepository interface {
	ListCategories(ctx context.Context, withProductCount bool) ([]*models.Category, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) ListCategories(ctx context.Context, withProductCount bool) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if !withProductCount {
		query := `SELECT id, name, description, image_url, created_at FROM categories ORDER BY name ASC`

		rows, err := r.DB.QueryContext(dbCtx, query)
		if err != nil {
			return nil, fmt.Errorf("querying categories: %w", err)
		}

		defer rows.Close()

		return scanCategories(rows, false)
	}

	// Product count is derived on read; only active products count.
	query := `
		SELECT c.id, c.name, c.description, c.image_url, c.created_at,
		COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON c.id = p.category_id AND p.is_active = true
		GROUP BY c.id, c.name, c.description, c.image_url, c.created_at
		ORDER BY c.name ASC`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories with counts: %w", err)
	}

	defer rows.Close()

	return scanCategories(rows, true)
}

func scanCategories(rows *sql.Rows, withProductCount bool) ([]*models.Category, error) {
	var categories []*models.Category

	for rows.Next() {
		category := &models.Category{}

		var description, imageURL sql.NullString

		if withProductCount {
			var count int64

			err := rows.Scan(&category.ID, &category.Name, &description, &imageURL, &category.CreatedAt, &count)
			if err != nil {
				return nil, err
			}

			category.ProductCount = &count
		} else {
			err := rows.Scan(&category.ID, &category.Name, &description, &imageURL, &category.CreatedAt)
			if err != nil {
				return nil, err
			}
		}

		category.Description = description.String
		category.ImageURL = imageURL.String

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
