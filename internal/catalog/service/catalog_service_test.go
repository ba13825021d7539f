package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cDomain "github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/catalog/repository"
	"github.com/mauryaent/mtech-store/internal/catalog/repository/mocks"
	"github.com/mauryaent/mtech-store/internal/platform/cache"
)

// memoryCache records sets and serves gets, enough to observe caching.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (m *memoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.sets++
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key], nil
}

func (m *memoryCache) GenerateKey(operation, key string) string {
	return operation + ":" + key
}

func newService(t *testing.T, repo repository.CatalogRepository, c cache.Cache) CatalogService {
	t.Helper()
	s := NewCatalogService(repo, c, time.Minute)
	t.Cleanup(s.Close)
	return s
}

func TestCatalogService_ListProducts(t *testing.T) {
	mockRepo := new(mocks.MockCatalogRepository)
	svc := newService(t, mockRepo, cache.NewNopCache())
	ctx := context.TODO()

	params := cDomain.ListParams{Category: "sensors", Sort: cDomain.SortPriceLow}
	mockProducts := []cDomain.Product{
		{ID: 3, Name: "HC-SR04", Category: "sensors", Price: 85},
		{ID: 4, Name: "DHT22", Category: "sensors", Price: 280},
	}

	t.Run("passes params through", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, params).Return(mockProducts, nil).Once()

		products, err := svc.ListProducts(ctx, params)

		assert.NoError(t, err)
		assert.Equal(t, mockProducts, products)
		mockRepo.AssertExpectations(t)
	})

	t.Run("propagates store failure", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, params).Return(nil, errors.New("db locked")).Once()

		products, err := svc.ListProducts(ctx, params)

		assert.Error(t, err)
		assert.Nil(t, products)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_GetProductDetails(t *testing.T) {
	mockRepo := new(mocks.MockCatalogRepository)
	svc := newService(t, mockRepo, cache.NewNopCache())
	ctx := context.TODO()

	t.Run("not found passes through", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, int64(42)).Return(nil, repository.ErrProductNotFound).Once()

		product, err := svc.GetProductDetails(ctx, 42)

		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		assert.Nil(t, product)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_ListCategories(t *testing.T) {
	ctx := context.TODO()
	rawSummaries := []cDomain.CategorySummary{
		{ID: "development-boards", Count: 3, AvgRating: 4.72222,
			PriceRange: cDomain.PriceRange{Min: 650, Max: 8500}},
		{ID: "sensors", Count: 2, AvgRating: 4.65,
			PriceRange: cDomain.PriceRange{Min: 85, Max: 280}},
	}

	t.Run("prettifies names and rounds ratings", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := newService(t, mockRepo, cache.NewNopCache())
		mockRepo.On("ListCategories", ctx).Return(rawSummaries, nil).Once()

		summaries, err := svc.ListCategories(ctx)

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Development Boards", summaries[0].Name)
		assert.Equal(t, 4.7, summaries[0].AvgRating)
		assert.Equal(t, "Sensors", summaries[1].Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		c := newMemoryCache()
		svc := newService(t, mockRepo, c)
		mockRepo.On("ListCategories", ctx).Return(rawSummaries, nil).Once()

		first, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		second, err := svc.ListCategories(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, c.sets)
		mockRepo.AssertExpectations(t) // repo hit exactly once
	})

	t.Run("malformed cache entry falls through to the store", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		c := newMemoryCache()
		c.entries["categories:all"] = "{not json"
		svc := newService(t, mockRepo, c)
		mockRepo.On("ListCategories", ctx).Return(rawSummaries, nil).Once()

		summaries, err := svc.ListCategories(ctx)

		require.NoError(t, err)
		assert.Len(t, summaries, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := newService(t, mockRepo, cache.NewNopCache())
		mockRepo.On("ListCategories", ctx).Return(nil, errors.New("db gone")).Once()

		summaries, err := svc.ListCategories(ctx)

		assert.Error(t, err)
		assert.Nil(t, summaries)
		mockRepo.AssertExpectations(t)
	})
}

func TestFormatCategoryName(t *testing.T) {
	mockRepo := new(mocks.MockCatalogRepository)
	svc := newService(t, mockRepo, cache.NewNopCache()).(*catalogServiceImpl)

	tests := map[string]string{
		"arduino":            "Arduino",
		"development-boards": "Development Boards",
		"raspberry-pi":       "Raspberry Pi",
	}
	for id, want := range tests {
		assert.Equal(t, want, svc.formatCategoryName(id))
	}
}
