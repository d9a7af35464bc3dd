package models

import "time"

type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ProductCount *int64    `json:"productCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CategoryRef is the slim category shape embedded in product responses.
type CategoryRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	OriginalPrice   *float64         `json:"originalPrice"`
	ImageURL        string           `json:"imageUrl"`
	StockQuantity   int              `json:"stockQuantity"`
	Rating          float64          `json:"rating"`
	ReviewCount     int              `json:"reviewCount"`
	Category        *CategoryRef     `json:"category,omitempty"`
	RelatedProducts []RelatedProduct `json:"relatedProducts,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type RelatedProduct struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	ImageURL      string   `json:"imageUrl"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
}

type ProductSuggestion struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// ProductStock is the minimal projection used by cart mutations.
// IsActive is carried so callers can decide between "not found" and "skip".
type ProductStock struct {
	ID            int64
	Name          string
	StockQuantity int
	IsActive      bool
}
