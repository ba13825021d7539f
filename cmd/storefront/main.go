// Command storefront is a terminal shopper client against the MTech Store
// API: browse the catalog, filter and sort it, and manage a cart that
// persists between runs.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mauryaent/mtech-store/internal/platform/config"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
	"github.com/mauryaent/mtech-store/internal/storefront/app"
	"github.com/mauryaent/mtech-store/internal/storefront/cart"
	"github.com/mauryaent/mtech-store/internal/storefront/catalogclient"
	"github.com/mauryaent/mtech-store/internal/storefront/query"
)

func main() {
	cfg := config.LoadStorefrontConfig()

	client := catalogclient.NewClient(cfg.APIBaseURL, cfg.FetchTimeout)
	cartStore := cart.NewStore(cart.NewFileStorage(cfg.CartFile))
	storefront := app.New(client, cartStore, cfg.FetchTimeout)

	storefront.Subscribe(render)

	if err := storefront.Refresh(context.Background()); err != nil {
		logger.Warn("Initial catalog fetch failed: %v", err)
		fmt.Println("Could not reach the store, type 'refresh' to retry.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Commands: list | filter <category> | sort <name|price-low|price-high|rating> | clear | add <id> | qty <id> <n> | rm <id> | cart | refresh | quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "list":
			render(storefront.CurrentState())
		case "refresh":
			if err := storefront.Refresh(context.Background()); err != nil {
				fmt.Println("Refresh failed:", err)
			}
		case "filter":
			if len(fields) < 2 {
				storefront.FilterChanged("")
				continue
			}
			storefront.FilterChanged(fields[1])
		case "sort":
			if len(fields) < 2 {
				continue
			}
			storefront.SortChanged(query.SortKey(fields[1]))
		case "clear":
			storefront.ClearFilters()
		case "add":
			withProductID(fields, func(id int64) {
				if err := storefront.AddToCart(id); err != nil {
					if errors.Is(err, cart.ErrProductUnavailable) {
						fmt.Println("That product is unavailable.")
						return
					}
					fmt.Println("Could not update cart:", err)
				}
			})
		case "qty":
			if len(fields) < 3 {
				fmt.Println("Usage: qty <id> <n>")
				continue
			}
			quantity, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("Usage: qty <id> <n>")
				continue
			}
			withProductID(fields, func(id int64) {
				if err := storefront.QuantityChanged(id, quantity); err != nil {
					fmt.Println("Could not update cart:", err)
				}
			})
		case "rm":
			withProductID(fields, func(id int64) {
				if err := storefront.RemoveFromCart(id); err != nil {
					fmt.Println("Could not update cart:", err)
				}
			})
		case "cart":
			renderCart(storefront.CurrentState())
		default:
			fmt.Println("Unknown command:", fields[0])
		}
	}
}

func withProductID(fields []string, fn func(int64)) {
	if len(fields) < 2 {
		fmt.Println("A product id is required.")
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Println("Invalid product id:", fields[1])
		return
	}
	fn(id)
}

func render(s app.State) {
	switch s.View {
	case app.ViewLoading:
		fmt.Println("Loading products...")
		return
	case app.ViewError:
		fmt.Println("Unable to load products:", s.Err)
		return
	}

	if len(s.Products) == 0 {
		fmt.Println("No products found. Try adjusting your filters.")
		return
	}

	for _, p := range s.Products {
		discount := ""
		if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
			pct := (*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100
			discount = fmt.Sprintf("  (%.0f%% OFF)", pct)
		}
		fmt.Printf("  [%d] %-36s ₹%.2f%s  %.1f★ (%d)\n",
			p.ID, p.Name, p.Price, discount, p.Rating, p.ReviewsCount)
	}
	fmt.Printf("Cart: %d item(s)\n", s.CartCount)
}

func renderCart(s app.State) {
	if len(s.CartItems) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	byID := make(map[int64]string, len(s.Catalog))
	for _, p := range s.Catalog {
		byID[p.ID] = p.Name
	}
	for _, item := range s.CartItems {
		name := byID[item.ProductID]
		if name == "" {
			name = fmt.Sprintf("product %d (no longer available)", item.ProductID)
		}
		fmt.Printf("  %dx %s\n", item.Quantity, name)
	}
	fmt.Printf("Total: ₹%s\n", s.CartTotal.StringFixed(2))
}
