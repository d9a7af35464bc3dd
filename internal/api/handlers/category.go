package handlers

import (
	"log/slog"
	"net/http"

	"github.com/modernshop/storefront-api/internal/api/middleware"
	service "github.com/modernshop/storefront-api/internal/services"
	"github.com/modernshop/storefront-api/internal/utils/response"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		withProductCount := r.URL.Query().Get("includeProductCount") == "true"

		categories, err := h.categoryService.ListCategories(r.Context(), withProductCount)
		if err != nil {
			logger.Error("Failed to fetch categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{"categories": categories})
	}
}
