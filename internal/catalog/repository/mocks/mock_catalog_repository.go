package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cDomain "github.com/mauryaent/mtech-store/internal/catalog/domain"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, params cDomain.ListParams) ([]cDomain.Product, error) {
	args := m.Called(ctx, params)
	if res := args.Get(0); res != nil {
		return res.([]cDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, id int64) (*cDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*cDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]cDomain.CategorySummary, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]cDomain.CategorySummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) EnsureSeedData(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
