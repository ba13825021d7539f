package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogRepository interface {
	ListProducts(ctx context.Context, params domain.ListParams) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.CategorySummary, error)
	EnsureSeedData(ctx context.Context) error
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    name            TEXT NOT NULL,
    category        TEXT NOT NULL,
    price           REAL NOT NULL,
    original_price  REAL,
    image           TEXT,
    rating          REAL NOT NULL DEFAULT 0,
    reviews_count   INTEGER NOT NULL DEFAULT 0,
    description     TEXT NOT NULL DEFAULT '',
    specifications  TEXT NOT NULL DEFAULT '{}',
    in_stock        INTEGER NOT NULL DEFAULT 1,
    stock_count     INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

var productColumns = []string{
	"id", "name", "category", "price", "original_price", "image",
	"rating", "reviews_count", "description", "specifications",
	"in_stock", "stock_count", "created_at",
}

type sqliteCatalogRepository struct {
	db *sql.DB
}

func NewSQLiteCatalogRepository(db *sql.DB) (CatalogRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("applying products schema: %w", err)
	}
	return &sqliteCatalogRepository{db: db}, nil
}

// ListProducts composes the dynamic catalog query. Only in-stock products are
// visible through the listing; the category match is exact and case-sensitive,
// the search is a substring match over name and description (LIKE is
// case-insensitive for ASCII in SQLite, matching the original storefront).
// Offset is applied only when a limit is present.
func (r *sqliteCatalogRepository) ListProducts(ctx context.Context, params domain.ListParams) ([]domain.Product, error) {
	qb := squirrel.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"in_stock": 1})

	if params.Category != "" {
		qb = qb.Where(squirrel.Eq{"category": params.Category})
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.Like{"name": pattern},
			squirrel.Like{"description": pattern},
		})
	}

	switch params.Sort {
	case domain.SortPriceLow:
		qb = qb.OrderBy("price ASC")
	case domain.SortPriceHigh:
		qb = qb.OrderBy("price DESC")
	case domain.SortRating:
		qb = qb.OrderBy("rating DESC")
	case domain.SortNewest:
		qb = qb.OrderBy("created_at DESC")
	default: // domain.SortName and anything unrecognized
		qb = qb.OrderBy("name ASC")
	}

	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
		if params.Offset > 0 {
			qb = qb.Offset(uint64(params.Offset))
		}
	}

	rows, err := qb.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListProducts: rows iteration error", err)
		return nil, err
	}
	return products, nil
}

// GetProductByID returns ErrProductNotFound for missing products and for
// products that exist but are out of stock, matching the listing's visibility.
func (r *sqliteCatalogRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := squirrel.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"id": id, "in_stock": 1}).
		RunWith(r.db).
		QueryRowContext(ctx)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return &p, nil
}

// ListCategories aggregates the in-stock catalog per category, most populous
// category first. Display names are filled in by the service layer.
func (r *sqliteCatalogRepository) ListCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	rows, err := squirrel.Select(
		"category",
		"COUNT(*) AS product_count",
		"AVG(rating) AS avg_rating",
		"MIN(price) AS min_price",
		"MAX(price) AS max_price",
	).
		From("products").
		Where(squirrel.Eq{"in_stock": 1}).
		GroupBy("category").
		OrderBy("product_count DESC").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		logger.Error("ListCategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.CategorySummary{}
	for rows.Next() {
		var s domain.CategorySummary
		var avgRating sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Count, &avgRating, &s.PriceRange.Min, &s.PriceRange.Max); err != nil {
			logger.Error("ListCategories: scan failed", err)
			return nil, err
		}
		s.AvgRating = avgRating.Float64
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListCategories: rows iteration error", err)
		return nil, err
	}
	return summaries, nil
}

func (r *sqliteCatalogRepository) insertProduct(ctx context.Context, p domain.Product) error {
	var originalPrice interface{}
	if p.OriginalPrice != nil {
		originalPrice = *p.OriginalPrice
	}

	_, err := squirrel.Insert("products").
		SetMap(map[string]interface{}{
			"id":             p.ID,
			"name":           p.Name,
			"category":       p.Category,
			"price":          p.Price,
			"original_price": originalPrice,
			"image":          p.Image,
			"rating":         p.Rating,
			"reviews_count":  p.ReviewsCount,
			"description":    p.Description,
			"specifications": p.Specifications,
			"in_stock":       p.InStock,
			"stock_count":    p.StockCount,
			"created_at":     p.CreatedAt.UTC().Format(time.RFC3339),
		}).
		RunWith(r.db).
		ExecContext(ctx)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p             domain.Product
		originalPrice sql.NullFloat64
		createdAt     string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &originalPrice, &p.Image,
		&p.Rating, &p.ReviewsCount, &p.Description, &p.Specifications,
		&p.InStock, &p.StockCount, &createdAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if originalPrice.Valid {
		p.OriginalPrice = &originalPrice.Float64
	}
	// created_at is stored as RFC3339 TEXT, the SQLite idiom.
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return p, nil
}
