// Package guestcart holds the anonymous cart: the cart a visitor builds
// before logging in. It is an explicit state object the caller owns and
// passes around; persistence happens only at the Serialize/Load boundary.
// On login its merge payload is posted to the cart merge endpoint and the
// cart itself is discarded, regardless of how the merge went.
package guestcart

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/models"
)

// Item is one anonymous cart line. The product fields are a snapshot taken
// at add-to-cart time, not a live join.
type Item struct {
	Quantity int                `json:"quantity"`
	Product  models.CartProduct `json:"product"`
}

type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Load rebuilds a cart from its serialized form.
func Load(data []byte) (*Cart, error) {
	var items []Item

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperrors.ValidationError("Guest cart contains a line with quantity below 1")
		}
	}

	return &Cart{items: items}, nil
}

func (c *Cart) Serialize() ([]byte, error) {
	if c.items == nil {
		return json.Marshal([]Item{})
	}

	return json.Marshal(c.items)
}

// Add puts a product into the cart. Topping up an existing line is capped
// silently at the product's stock; a brand-new line whose requested
// quantity alone exceeds stock is rejected.
func (c *Cart) Add(product models.CartProduct, quantity int) error {

	if quantity < 1 {
		return apperrors.ValidationError("Quantity must be at least 1")
	}

	for i := range c.items {
		if c.items[i].Product.ID != product.ID {
			continue
		}

		newQuantity := c.items[i].Quantity + quantity
		if newQuantity > product.StockQuantity {
			newQuantity = product.StockQuantity
		}

		c.items[i].Quantity = newQuantity
		c.items[i].Product = product

		return nil
	}

	if quantity > product.StockQuantity {
		return apperrors.InsufficientStockError("Insufficient stock")
	}

	c.items = append(c.items, Item{Quantity: quantity, Product: product})

	return nil
}

// UpdateQuantity sets an existing line's quantity. A line may never hold
// quantity 0; remove it instead.
func (c *Cart) UpdateQuantity(productID int64, quantity int) error {

	if quantity < 1 {
		return apperrors.ValidationError("Quantity must be at least 1")
	}

	for i := range c.items {
		if c.items[i].Product.ID != productID {
			continue
		}

		if quantity > c.items[i].Product.StockQuantity {
			return apperrors.InsufficientStockError("Insufficient stock")
		}

		c.items[i].Quantity = quantity

		return nil
	}

	return apperrors.NotFoundError("Item not found in cart")
}

// Remove drops a line by product id. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)

	return items
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Summary() models.CartSummary {
	lines := make([]models.LineTotal, 0, len(c.items))

	for _, item := range c.items {
		lines = append(lines, models.LineTotal{Price: item.Product.Price, Quantity: item.Quantity})
	}

	return models.Summarize(lines)
}

// MergePayload is the list posted to the cart merge endpoint on login.
func (c *Cart) MergePayload() []models.GuestCartItem {
	payload := make([]models.GuestCartItem, 0, len(c.items))

	for _, item := range c.items {
		payload = append(payload, models.GuestCartItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	return payload
}
