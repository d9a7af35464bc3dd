package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/modernshop/storefront-api/internal/api/middleware"
	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/models"
	service "github.com/modernshop/storefront-api/internal/services"
	"github.com/modernshop/storefront-api/internal/utils"
	"github.com/modernshop/storefront-api/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to fetch cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.cartService.AddItem(r.Context(), claims.UserID, &req); err != nil {
			logger.Warn("Failed to add item to cart", slog.Int64("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int64("productId", req.ProductID))
		response.Success(w, http.StatusOK, map[string]string{"message": "Item added to cart successfully"})
	}
}

func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid cart item ID"))
			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.cartService.UpdateItem(r.Context(), claims.UserID, itemID, req.Quantity); err != nil {
			logger.Warn("Failed to update cart item", slog.Int64("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Cart item updated successfully"})
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid cart item ID"))
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID); err != nil {
			logger.Warn("Failed to remove cart item", slog.Int64("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Item removed from cart successfully"})
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Cart cleared successfully"})
	}
}

// MergeCart folds the guest cart posted at login into the user's stored
// cart. The client discards its local copy after this call either way.
func (h *CartHandler) MergeCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		var req models.MergeCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if len(req.GuestCartItems) == 0 {
			response.Success(w, http.StatusOK, map[string]string{"message": "No guest cart items to merge"})
			return
		}

		if err := h.cartService.MergeGuestCart(r.Context(), claims.UserID, req.GuestCartItems); err != nil {
			logger.Error("Failed to merge guest cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Guest cart merged", slog.Int("items", len(req.GuestCartItems)))
		response.Success(w, http.StatusOK, map[string]string{"message": "Guest cart merged successfully"})
	}
}

// requireClaims fetches the authenticated user's claims, writing the 401
// itself when absent.
func requireClaims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Unauthorized access attempt")
		response.Error(w, apperrors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}
