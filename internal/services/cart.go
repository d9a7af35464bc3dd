package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/modernshop/storefront-api/internal/api/middleware"
	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/models"
	repository "github.com/modernshop/storefront-api/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	AddItem(ctx context.Context, userID int64, req *models.AddCartItemRequest) error
	UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
	MergeGuestCart(ctx context.Context, userID int64, guestItems []models.GuestCartItem) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {

	items, err := s.cartRepo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if items == nil {
		items = []*models.CartItem{}
	}

	lines := make([]models.LineTotal, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.LineTotal{Price: item.Product.Price, Quantity: item.Quantity})
	}

	return &models.Cart{Items: items, Summary: models.Summarize(lines)}, nil
}

// AddItem inserts a new line or tops up an existing one. Exceeding the
// product's stock is rejected outright on this path, never capped.
func (s *cartService) AddItem(ctx context.Context, userID int64, req *models.AddCartItemRequest) error {

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	stock, err := s.productRepo.GetProductStock(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("Product not found").WithError(err)
		}
		return apperrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if !stock.IsActive {
		return apperrors.NotFoundError("Product not found")
	}

	line, err := s.cartRepo.GetCartLine(ctx, userID, req.ProductID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return apperrors.DatabaseError("Failed to fetch cart item").WithError(err)
	}

	if line != nil {
		newQuantity := line.Quantity + quantity

		if newQuantity > stock.StockQuantity {
			return apperrors.InsufficientStockError("Insufficient stock")
		}

		if err := s.cartRepo.UpdateCartItemQuantity(ctx, line.ID, newQuantity); err != nil {
			return apperrors.DatabaseError("Failed to update cart item").WithError(err)
		}

		return nil
	}

	if quantity > stock.StockQuantity {
		return apperrors.InsufficientStockError("Insufficient stock")
	}

	if err := s.cartRepo.InsertCartItem(ctx, userID, req.ProductID, quantity); err != nil {
		return apperrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {

	line, err := s.cartRepo.GetCartLineStock(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("Cart item not found").WithError(err)
		}
		return apperrors.DatabaseError("Failed to fetch cart item").WithError(err)
	}

	if quantity > line.StockQuantity {
		return apperrors.InsufficientStockError("Insufficient stock")
	}

	if err := s.cartRepo.UpdateCartItemQuantity(ctx, line.ID, quantity); err != nil {
		return apperrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) error {

	err := s.cartRepo.DeleteCartItem(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("Cart item not found").WithError(err)
		}
		return apperrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID int64) error {

	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		return apperrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

// MergeGuestCart folds an anonymous cart into the user's stored cart, once,
// on login. Per item: missing or inactive products are skipped silently,
// top-ups and inserts are capped at current stock. Items are merged
// independently; there is no cross-item transaction.
func (s *cartService) MergeGuestCart(ctx context.Context, userID int64, guestItems []models.GuestCartItem) error {

	logger := middleware.LoggerFromContext(ctx)

	for _, guestItem := range guestItems {

		if guestItem.ProductID <= 0 || guestItem.Quantity < 1 {
			continue
		}

		stock, err := s.productRepo.GetProductStock(ctx, guestItem.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return apperrors.DatabaseError("Failed to merge guest cart").WithError(err)
		}

		if !stock.IsActive {
			logger.Debug("Skipping inactive product during cart merge", slog.Int64("productId", guestItem.ProductID))
			continue
		}

		line, err := s.cartRepo.GetCartLine(ctx, userID, guestItem.ProductID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return apperrors.DatabaseError("Failed to merge guest cart").WithError(err)
		}

		if line != nil {
			newQuantity := min(line.Quantity+guestItem.Quantity, stock.StockQuantity)

			if err := s.cartRepo.UpdateCartItemQuantity(ctx, line.ID, newQuantity); err != nil {
				return apperrors.DatabaseError("Failed to merge guest cart").WithError(err)
			}

			continue
		}

		quantity := min(guestItem.Quantity, stock.StockQuantity)

		if err := s.cartRepo.InsertCartItem(ctx, userID, guestItem.ProductID, quantity); err != nil {
			return apperrors.DatabaseError("Failed to merge guest cart").WithError(err)
		}
	}

	return nil
}
