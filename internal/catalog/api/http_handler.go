package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/catalog/repository"
	"github.com/mauryaent/mtech-store/internal/catalog/service"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(cs service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
	}
	router.GET("/categories", h.ListCategories)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := domain.ListParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	var err error
	if params.Limit, err = queryInt(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	if params.Offset, err = queryInt(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		logger.Error("ListProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
		"message":  "Products retrieved successfully",
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalogService.GetProductDetails(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("GetProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"message": "Product retrieved successfully",
	})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("ListCategories: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
		"message":    "Categories retrieved successfully",
	})
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
