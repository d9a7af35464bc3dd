package models

import (
	"math"
	"time"
)

// CartProduct is the product shape carried on a cart line. For the
// authenticated cart it is re-joined against the live product on every read;
// the guest cart stores it as a snapshot captured at add-to-cart time.
type CartProduct struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	ImageURL      string   `json:"imageUrl"`
	StockQuantity int      `json:"stockQuantity"`
	CategoryName  string   `json:"categoryName"`
}

type CartItem struct {
	ID        int64       `json:"id"`
	Quantity  int         `json:"quantity"`
	Product   CartProduct `json:"product"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CartLine is the stored row shape used by cart mutations, before the
// product join.
type CartLine struct {
	ID       int64
	Quantity int
}

// CartLineStock is a cart line joined with the live product's stock, used
// when validating a quantity update against the stock ceiling.
type CartLineStock struct {
	ID            int64
	ProductID     int64
	Quantity      int
	StockQuantity int
}

type CartSummary struct {
	Subtotal   float64 `json:"subtotal"`
	TotalItems int     `json:"totalItems"`
	ItemCount  int     `json:"itemCount"`
}

// LineTotal is the (price, quantity) pair Summarize operates on.
type LineTotal struct {
	Price    float64
	Quantity int
}

// Summarize derives cart totals from a list of line items. Pure function;
// the subtotal is rounded to two decimal places.
func Summarize(lines []LineTotal) CartSummary {
	summary := CartSummary{ItemCount: len(lines)}

	for _, line := range lines {
		summary.Subtotal += line.Price * float64(line.Quantity)
		summary.TotalItems += line.Quantity
	}

	summary.Subtotal = math.Round(summary.Subtotal*100) / 100

	return summary
}

type Cart struct {
	Items   []*CartItem `json:"items"`
	Summary CartSummary `json:"summary"`
}

type AddCartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity"  validate:"omitempty,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// GuestCartItem is one line of the anonymous cart as posted to the merge
// endpoint. Entries are not validated individually; unmergeable ones are
// skipped silently.
type GuestCartItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type MergeCartRequest struct {
	GuestCartItems []GuestCartItem `json:"guestCartItems"`
}
