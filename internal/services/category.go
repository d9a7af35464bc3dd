package service

import (
	"context"

	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/models"
	repository "github.com/modernshop/storefront-api/internal/repositories"
)

type CategoryService interface {
	ListCategories(ctx context.Context, withProductCount bool) ([]*models.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) ListCategories(ctx context.Context, withProductCount bool) ([]*models.Category, error) {

	categories, err := s.repo.ListCategories(ctx, withProductCount)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	if categories == nil {
		categories = []*models.Category{}
	}

	return categories, nil
}
