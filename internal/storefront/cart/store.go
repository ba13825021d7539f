// Package cart holds the shopper's line items: an insertion-ordered
// collection, unique by product id, persisted on every mutation.
package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
)

// ErrProductUnavailable is returned by Add when the product is absent from
// the catalog snapshot or not in stock. The cart is left untouched.
var ErrProductUnavailable = errors.New("product unavailable")

type LineItem struct {
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Store is not safe for concurrent use; callers serialize mutations, the way
// the app context does. Every mutation persists the full cart before it is
// committed in memory, so a failed save never leaves a half-applied state.
type Store struct {
	storage Storage
	items   []LineItem
	now     func() time.Time
}

// NewStore loads the persisted cart once. A missing or corrupt blob yields an
// empty cart, never an error: losing a cart is annoying, crashing the
// storefront over one is worse.
func NewStore(storage Storage) *Store {
	items, err := storage.Load()
	if err != nil {
		logger.Warn("cart: discarding unreadable persisted cart: %v", err)
		items = nil
	}
	return &Store{
		storage: storage,
		items:   sanitize(items),
		// UTC so AddedAt round-trips exactly through the JSON blob.
		now: func() time.Time { return time.Now().UTC() },
	}
}

// sanitize drops persisted entries that violate the cart invariants:
// non-positive quantities, non-positive product ids, and duplicate product
// ids (first occurrence wins).
func sanitize(items []LineItem) []LineItem {
	clean := make([]LineItem, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if item.ProductID <= 0 || item.Quantity <= 0 || seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		clean = append(clean, item)
	}
	return clean
}

// Add increments the quantity for an existing line item, or appends a new one
// with quantity 1. The product must exist in the snapshot and be in stock.
func (s *Store) Add(productID int64, snapshot []domain.Product) error {
	product := findProduct(snapshot, productID)
	if product == nil || !product.InStock {
		return ErrProductUnavailable
	}

	next := s.cloneItems()
	if idx := indexOf(next, productID); idx >= 0 {
		next[idx].Quantity++
	} else {
		next = append(next, LineItem{
			ProductID: productID,
			Quantity:  1,
			AddedAt:   s.now(),
		})
	}
	return s.commit(next)
}

// SetQuantity updates an existing line item. A quantity of zero or less
// removes the item; an unknown product id is a no-op.
func (s *Store) SetQuantity(productID int64, quantity int) error {
	idx := indexOf(s.items, productID)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		return s.Remove(productID)
	}

	next := s.cloneItems()
	next[idx].Quantity = quantity
	return s.commit(next)
}

// Remove deletes the matching line item; absence is a no-op, not an error.
func (s *Store) Remove(productID int64) error {
	idx := indexOf(s.items, productID)
	if idx < 0 {
		return nil
	}

	next := s.cloneItems()
	next = append(next[:idx], next[idx+1:]...)
	return s.commit(next)
}

// Items returns the line items in insertion order. The returned slice is a
// copy and safe for the caller to keep.
func (s *Store) Items() []LineItem {
	return s.cloneItems()
}

// TotalItemCount is the sum of all quantities, the number shown on the cart
// badge.
func (s *Store) TotalItemCount() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalValue prices the cart against the snapshot. Items whose product no
// longer appears in the snapshot contribute zero.
func (s *Store) TotalValue(snapshot []domain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		product := findProduct(snapshot, item.ProductID)
		if product == nil {
			continue
		}
		price := decimal.NewFromFloat(product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// commit persists the candidate state and only then swaps it in. On a save
// failure the in-memory cart is unchanged.
func (s *Store) commit(next []LineItem) error {
	if err := s.storage.Save(next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *Store) cloneItems() []LineItem {
	next := make([]LineItem, len(s.items))
	copy(next, s.items)
	return next
}

func indexOf(items []LineItem, productID int64) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func findProduct(snapshot []domain.Product, productID int64) *domain.Product {
	for i := range snapshot {
		if snapshot[i].ID == productID {
			return &snapshot[i]
		}
	}
	return nil
}
