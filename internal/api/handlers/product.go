package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/modernshop/storefront-api/internal/api/middleware"
	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/models"
	service "github.com/modernshop/storefront-api/internal/services"
	"github.com/modernshop/storefront-api/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// for eg: GET /products?category=2&minPrice=10&sortBy=price&page=2&limit=12
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter := parseProductFilter(r)

		products, pagination, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to fetch products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"products":   products,
			"pagination": pagination,
		})
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid product ID"))
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to fetch product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{"product": product})
	}
}

func (h *ProductHandler) FeaturedProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		products, err := h.productService.FeaturedProducts(r.Context(), limit)
		if err != nil {
			logger.Error("Failed to fetch featured products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{"products": products})
	}
}

func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))

		suggestions, err := h.productService.SearchSuggestions(r.Context(), query.Get("q"), limit)
		if err != nil {
			logger.Error("Failed to search products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{"suggestions": suggestions})
	}
}

// parseProductFilter reads the optional catalog filters. A value that fails
// to parse means "filter not applied", never a hard error.
func parseProductFilter(r *http.Request) *models.ProductFilter {

	query := r.URL.Query()
	filter := &models.ProductFilter{
		Search:    query.Get("search"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}

	if categoryID, err := strconv.ParseInt(query.Get("category"), 10, 64); err == nil {
		filter.CategoryID = &categoryID
	}

	if minPrice, err := strconv.ParseFloat(query.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &minPrice
	}

	if maxPrice, err := strconv.ParseFloat(query.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &maxPrice
	}

	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}

	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}
