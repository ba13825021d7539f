// Package app owns the storefront's client-side state: the last fetched
// catalog snapshot, the current filter/sort view, and the cart. UI events map
// to named commands; after every applied command subscribers receive a
// state-changed notification carrying a full copy of the state, so no
// rendering toolkit is baked in here.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
	"github.com/mauryaent/mtech-store/internal/storefront/cart"
	"github.com/mauryaent/mtech-store/internal/storefront/catalogclient"
	"github.com/mauryaent/mtech-store/internal/storefront/query"
)

type ViewState int

const (
	ViewLoading ViewState = iota
	ViewReady
	ViewError
)

// State is the immutable snapshot handed to subscribers. Slices are copies;
// holding on to a State is always safe.
type State struct {
	View      ViewState
	Err       error
	Products  []domain.Product // filtered and sorted view
	Catalog   []domain.Product // full last-known snapshot, for cart valuation joins
	CartItems []cart.LineItem
	CartCount int
	CartTotal decimal.Decimal
	Params    query.Params
}

type Listener func(State)

// CatalogSource is what the app needs from the network layer.
type CatalogSource interface {
	FetchProducts(ctx context.Context, params catalogclient.FetchParams) ([]domain.Product, error)
}

type App struct {
	mu sync.Mutex

	source       CatalogSource
	cart         *cart.Store
	engine       *query.Engine
	fetchTimeout time.Duration

	params    query.Params
	snapshot  []domain.Product
	view      []domain.Product
	viewState ViewState
	lastErr   error

	listeners []Listener
}

func New(source CatalogSource, cartStore *cart.Store, fetchTimeout time.Duration) *App {
	return &App{
		source:       source,
		cart:         cartStore,
		engine:       query.NewEngine(),
		fetchTimeout: fetchTimeout,
		viewState:    ViewLoading,
	}
}

// Subscribe registers a listener for state-changed notifications. Listeners
// are invoked synchronously after each applied command, in registration
// order.
func (a *App) Subscribe(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

// CurrentState returns a copy of the present state without dispatching
// anything.
func (a *App) CurrentState() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buildState()
}

// Refresh fetches the catalog. The view shows loading for the duration; a
// superseded response is dropped without touching the state, and a failed
// fetch lands in the error view for the caller to retry.
func (a *App) Refresh(ctx context.Context) error {
	a.mu.Lock()
	a.viewState = ViewLoading
	a.lastErr = nil
	a.notifyLocked()
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	products, err := a.source.FetchProducts(ctx, catalogclient.FetchParams{})
	if err != nil {
		if errors.Is(err, catalogclient.ErrSuperseded) {
			// A newer refresh owns the state now.
			return nil
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		a.viewState = ViewError
		a.lastErr = err
		a.notifyLocked()
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot = products
	a.viewState = ViewReady
	a.recomputeViewLocked()
	a.notifyLocked()
	return nil
}

// FilterChanged applies a category filter over the fetched snapshot.
func (a *App) FilterChanged(category string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params.Category = category
	a.recomputeViewLocked()
	a.notifyLocked()
}

// SortChanged applies a sort key over the fetched snapshot.
func (a *App) SortChanged(key query.SortKey) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params.Sort = key
	a.recomputeViewLocked()
	a.notifyLocked()
}

// ClearFilters resets the view to the unfiltered, name-sorted default.
func (a *App) ClearFilters() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params = query.Params{}
	a.recomputeViewLocked()
	a.notifyLocked()
}

// AddToCart adds one unit of the product. Unknown or out-of-stock products
// are rejected and the cart stays as it was.
func (a *App) AddToCart(productID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cart.Add(productID, a.snapshot); err != nil {
		return err
	}
	a.notifyLocked()
	return nil
}

// QuantityChanged sets a line item's quantity; zero or less removes it.
func (a *App) QuantityChanged(productID int64, quantity int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cart.SetQuantity(productID, quantity); err != nil {
		return err
	}
	a.notifyLocked()
	return nil
}

// RemoveFromCart drops the line item if present.
func (a *App) RemoveFromCart(productID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cart.Remove(productID); err != nil {
		return err
	}
	a.notifyLocked()
	return nil
}

func (a *App) recomputeViewLocked() {
	a.view = a.engine.Apply(a.snapshot, a.params)
}

func (a *App) notifyLocked() {
	state := a.buildState()
	for _, l := range a.listeners {
		l(state)
	}
}

func (a *App) buildState() State {
	products := make([]domain.Product, len(a.view))
	copy(products, a.view)
	catalog := make([]domain.Product, len(a.snapshot))
	copy(catalog, a.snapshot)

	return State{
		View:      a.viewState,
		Err:       a.lastErr,
		Products:  products,
		Catalog:   catalog,
		CartItems: a.cart.Items(),
		CartCount: a.cart.TotalItemCount(),
		CartTotal: a.cart.TotalValue(a.snapshot),
		Params:    a.params,
	}
}

// LogState is a convenience listener for headless runs.
func LogState(s State) {
	switch s.View {
	case ViewLoading:
		logger.Debug("state: loading")
	case ViewError:
		logger.Debug("state: error: %v", s.Err)
	default:
		logger.Debug("state: %d products, %d cart items", len(s.Products), s.CartCount)
	}
}
