package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/models"
	repository "github.com/modernshop/storefront-api/internal/repositories"
)

const relatedProductsLimit = 4

type ProductService interface {
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, *models.Pagination, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]*models.Product, error)
	SearchSuggestions(ctx context.Context, term string, limit int) ([]*models.ProductSuggestion, error)
}

type productService struct {
	repo      repository.ProductRepository
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, *models.Pagination, error) {

	filter.Search = strings.TrimSpace(s.sanitizer.Sanitize(filter.Search))
	filter.Normalize()

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, nil, apperrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	if products == nil {
		products = []*models.Product{}
	}

	return products, models.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, apperrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	// Uncategorized products have nothing to relate to.
	if product.Category != nil {
		related, err := s.repo.ListRelatedProducts(ctx, product.Category.ID, product.ID, relatedProductsLimit)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to fetch related products").WithError(err)
		}

		product.RelatedProducts = related
	}

	return product, nil
}

func (s *productService) FeaturedProducts(ctx context.Context, limit int) ([]*models.Product, error) {

	if limit < 1 {
		limit = models.DefaultFeatured
	}

	if limit > models.MaxFeatured {
		limit = models.MaxFeatured
	}

	products, err := s.repo.ListFeaturedProducts(ctx, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch featured products").WithError(err)
	}

	if products == nil {
		products = []*models.Product{}
	}

	return products, nil
}

// SearchSuggestions returns name-match suggestions. A term shorter than two
// characters yields an empty list, not an error.
func (s *productService) SearchSuggestions(ctx context.Context, term string, limit int) ([]*models.ProductSuggestion, error) {

	term = strings.TrimSpace(s.sanitizer.Sanitize(term))

	if len(term) < 2 {
		return []*models.ProductSuggestion{}, nil
	}

	if limit < 1 {
		limit = models.DefaultSuggestions
	}

	if limit > models.MaxSuggestions {
		limit = models.MaxSuggestions
	}

	suggestions, err := s.repo.SearchProducts(ctx, term, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to search products").WithError(err)
	}

	if suggestions == nil {
		suggestions = []*models.ProductSuggestion{}
	}

	return suggestions, nil
}
