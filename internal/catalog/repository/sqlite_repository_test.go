package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/platform/database"
)

func newTestRepo(t *testing.T) (*sqliteCatalogRepository, *sql.DB) {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewSQLiteCatalogRepository(db)
	require.NoError(t, err)
	return repo.(*sqliteCatalogRepository), db
}

func fixtureProducts() []domain.Product {
	base := time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Product{
		{ID: 1, Name: "Arduino UNO", Category: "arduino", Price: 1844, Rating: 4.8,
			Specifications: "{}", InStock: true, CreatedAt: base},
		{ID: 2, Name: "ESP32 DevKit", Category: "development-boards", Price: 650, Rating: 4.7,
			Description: "WiFi and Bluetooth board", Specifications: "{}", InStock: true,
			CreatedAt: base.Add(time.Hour)},
		{ID: 3, Name: "HC-SR04", Category: "sensors", Price: 85, Rating: 4.6,
			Description: "Ultrasonic distance sensor", Specifications: "{}", InStock: true,
			CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Name: "DHT22", Category: "sensors", Price: 280, Rating: 4.7,
			Description: "Temperature and humidity sensor", Specifications: "{}", InStock: true,
			CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Name: "Discontinued Kit", Category: "kits", Price: 999, Rating: 3.0,
			Specifications: "{}", InStock: false, CreatedAt: base.Add(4 * time.Hour)},
	}
}

func seedFixtures(t *testing.T, repo *sqliteCatalogRepository) {
	t.Helper()
	ctx := context.Background()
	for _, p := range fixtureProducts() {
		require.NoError(t, repo.insertProduct(ctx, p))
	}
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestListProducts_StockFilterAlwaysApplies(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)

	products, err := repo.ListProducts(context.Background(), domain.ListParams{})
	require.NoError(t, err)

	assert.Len(t, products, 4)
	for _, p := range products {
		assert.True(t, p.InStock)
	}
}

func TestListProducts_CategoryFilter(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Category: "sensors"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{3, 4}, ids(products))
	})

	t.Run("case sensitive", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Category: "SENSORS"})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("zero matches is empty, not an error", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Category: "motors"})
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})
}

func TestListProducts_Search(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)
	ctx := context.Background()

	t.Run("matches name", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Search: "esp32"})
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, ids(products))
	})

	t.Run("matches description, case-insensitive", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Search: "SENSOR"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{3, 4}, ids(products))
	})

	t.Run("substring, not prefix", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Search: "humidity"})
		require.NoError(t, err)
		assert.Equal(t, []int64{4}, ids(products))
	})
}

func TestListProducts_Sorts(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)
	ctx := context.Background()

	tests := []struct {
		name string
		sort string
		want []int64
	}{
		{name: "name default", sort: "", want: []int64{1, 4, 2, 3}},
		{name: "unknown falls back to name", sort: "bogus", want: []int64{1, 4, 2, 3}},
		{name: "price-low", sort: domain.SortPriceLow, want: []int64{3, 4, 2, 1}},
		{name: "price-high", sort: domain.SortPriceHigh, want: []int64{1, 2, 4, 3}},
		{name: "newest", sort: domain.SortNewest, want: []int64{4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.ListProducts(ctx, domain.ListParams{Sort: tt.sort})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(products))
		})
	}

	t.Run("deterministic across runs", func(t *testing.T) {
		first, err := repo.ListProducts(ctx, domain.ListParams{Sort: domain.SortRating})
		require.NoError(t, err)
		second, err := repo.ListProducts(ctx, domain.ListParams{Sort: domain.SortRating})
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(second))
	})
}

func TestListProducts_Pagination(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)
	ctx := context.Background()

	t.Run("limit bounds the result", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Sort: domain.SortPriceLow, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, ids(products))
	})

	t.Run("offset shifts the window", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Sort: domain.SortPriceLow, Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 1}, ids(products))
	})

	t.Run("offset without limit is ignored", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, domain.ListParams{Offset: 3})
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})
}

func TestGetProductByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		product, err := repo.GetProductByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Arduino UNO", product.Name)
		assert.Equal(t, "arduino", product.Category)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetProductByID(ctx, 42)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("out of stock reads as not found", func(t *testing.T) {
		_, err := repo.GetProductByID(ctx, 5)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestListCategories(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedFixtures(t, repo)

	summaries, err := repo.ListCategories(context.Background())
	require.NoError(t, err)

	// Out-of-stock "kits" must not appear; sensors (2 products) comes first.
	require.Len(t, summaries, 3)
	assert.Equal(t, "sensors", summaries[0].ID)
	assert.Equal(t, 2, summaries[0].Count)
	assert.InDelta(t, 4.65, summaries[0].AvgRating, 0.001)
	assert.Equal(t, 85.0, summaries[0].PriceRange.Min)
	assert.Equal(t, 280.0, summaries[0].PriceRange.Max)
}

func TestEnsureSeedData(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSeedData(ctx))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count))
	assert.Equal(t, 6, count)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, repo.EnsureSeedData(ctx))
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count))
		assert.Equal(t, 6, count)
	})

	t.Run("original price round-trips", func(t *testing.T) {
		product, err := repo.GetProductByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, product.OriginalPrice)
		assert.Equal(t, 2000.0, *product.OriginalPrice)
	})
}
