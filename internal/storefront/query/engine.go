// Package query implements the client-side view over an already-fetched
// catalog snapshot: exact category filtering plus the four shopper-facing
// sort orders. It deliberately does not know about search, stock filtering,
// or the "newest" sort — those are applied server-side before the snapshot
// ever reaches this package, and the two paths stay separate.
package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// Params selects the view: empty Category means no filtering, and any
// unrecognized SortKey sorts by name, like the original storefront's default
// dropdown option.
type Params struct {
	Category string
	Sort     SortKey
}

type Engine struct {
	collator *collate.Collator
}

// NewEngine builds an engine with an English collator for the name sort,
// mirroring the locale-aware comparison the browser applies.
func NewEngine() *Engine {
	return &Engine{collator: collate.New(language.English)}
}

// Apply filters and sorts the snapshot. It is pure: the input slice is never
// mutated, and identical inputs always produce the identically ordered
// result. The sort is stable, so products that compare equal keep their
// snapshot order. An empty result is a normal outcome, not an error.
func (e *Engine) Apply(snapshot []domain.Product, params Params) []domain.Product {
	view := make([]domain.Product, 0, len(snapshot))
	for _, p := range snapshot {
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		view = append(view, p)
	}

	sort.SliceStable(view, e.lessFunc(view, params.Sort))
	return view
}

func (e *Engine) lessFunc(view []domain.Product, key SortKey) func(i, j int) bool {
	switch key {
	case SortPriceLow:
		return func(i, j int) bool { return view[i].Price < view[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return view[i].Price > view[j].Price }
	case SortRating:
		return func(i, j int) bool { return view[i].Rating > view[j].Rating }
	default: // SortName and anything unrecognized
		return func(i, j int) bool {
			return e.collator.CompareString(view[i].Name, view[j].Name) < 0
		}
	}
}
