package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/catalog/repository"
	"github.com/mauryaent/mtech-store/internal/platform/cache"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
)

const categoriesCacheOp = "categories"

type CatalogService interface {
	ListProducts(ctx context.Context, params domain.ListParams) ([]domain.Product, error)
	GetProductDetails(ctx context.Context, productID int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.CategorySummary, error)
	Close()
}

type catalogServiceImpl struct {
	repo        repository.CatalogRepository
	cache       cache.Cache
	categoryTTL time.Duration
	scheduler   *cron.Cron
	titleCaser  cases.Caser
}

func NewCatalogService(repo repository.CatalogRepository, c cache.Cache, categoryTTL time.Duration) CatalogService {
	s := &catalogServiceImpl{
		repo:        repo,
		cache:       c,
		categoryTTL: categoryTTL,
		scheduler:   cron.New(cron.WithSeconds()),
		titleCaser:  cases.Title(language.English),
	}
	s.initScheduler()
	return s
}

func (s *catalogServiceImpl) initScheduler() {
	spec := "0 */5 * * * *" // re-warm the category aggregates every 5 minutes
	s.scheduler.AddFunc(spec, func() {
		logger.Debug("Scheduler: re-warming category cache")
		if err := s.refreshCategoryCache(context.Background()); err != nil {
			logger.Error("Scheduler: category cache refresh failed", err)
		}
	})
	s.scheduler.Start()
}

// Close stops the background cache re-warm job.
func (s *catalogServiceImpl) Close() {
	s.scheduler.Stop()
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, params domain.ListParams) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, params)
}

func (s *catalogServiceImpl) GetProductDetails(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

// ListCategories serves the per-category aggregates, preferring the cache.
// Cache failures are logged and degrade to a direct query; they never fail
// the request.
func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	key := s.cache.GenerateKey(categoriesCacheOp, "all")

	if cached, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("ListCategories: cache get failed: %v", err)
	} else if cached != "" {
		var summaries []domain.CategorySummary
		if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
			return summaries, nil
		}
		logger.Warn("ListCategories: discarding malformed cache entry")
	}

	summaries, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.storeCategoryCache(ctx, key, summaries)
	return summaries, nil
}

func (s *catalogServiceImpl) refreshCategoryCache(ctx context.Context) error {
	summaries, err := s.loadCategories(ctx)
	if err != nil {
		return err
	}
	s.storeCategoryCache(ctx, s.cache.GenerateKey(categoriesCacheOp, "all"), summaries)
	return nil
}

func (s *catalogServiceImpl) loadCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	summaries, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Name = s.formatCategoryName(summaries[i].ID)
		summaries[i].AvgRating = math.Round(summaries[i].AvgRating*10) / 10
	}
	return summaries, nil
}

func (s *catalogServiceImpl) storeCategoryCache(ctx context.Context, key string, summaries []domain.CategorySummary) {
	payload, err := json.Marshal(summaries)
	if err != nil {
		logger.Error("storeCategoryCache: marshal failed", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.categoryTTL); err != nil {
		logger.Warn("storeCategoryCache: cache set failed: %v", err)
	}
}

// formatCategoryName turns a kebab-case category id into a display name,
// e.g. "development-boards" becomes "Development Boards".
func (s *catalogServiceImpl) formatCategoryName(id string) string {
	return s.titleCaser.String(strings.ReplaceAll(id, "-", " "))
}
