package domain

import (
	"time"
)

type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	OriginalPrice  *float64  `json:"original_price,omitempty"` // set only when discounted
	Image          string    `json:"image"`
	Rating         float64   `json:"rating"`
	ReviewsCount   int       `json:"reviews_count"`
	Description    string    `json:"description"`
	Specifications string    `json:"specifications"`
	InStock        bool      `json:"in_stock"`
	StockCount     int       `json:"stock_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Sort keys accepted by the catalog listing. Anything else falls back to name.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// ListParams carries the filter/sort/pagination request for a product listing.
// Zero values mean "no filtering" / "no limit". Offset is only honored when
// Limit is set.
type ListParams struct {
	Category string
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type CategorySummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Count      int        `json:"count"`
	AvgRating  float64    `json:"avg_rating"`
	PriceRange PriceRange `json:"price_range"`
}
