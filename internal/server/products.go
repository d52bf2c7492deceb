package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/models"
)

// productInput is the admin form payload. Variant stock arrives here
// unvalidated beyond the basics; availability math downstream tolerates
// whatever slips through.
type productInput struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Category    string                `json:"category" binding:"required"`
	Price       decimal.Decimal       `json:"price" binding:"required"`
	Image       string                `json:"image"`
	Colors      []models.ColorVariant `json:"colors"`
	Sizes       []models.SizeVariant  `json:"sizes"`
	TotalStock  int                   `json:"totalStock"`
}

func (in *productInput) toModel() *models.Product {
	return &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Image:       in.Image,
		Colors:      in.Colors,
		Sizes:       in.Sizes,
		TotalStock:  in.TotalStock,
	}
}

// validate rejects the inputs the database would accept but the
// storefront can never sell.
func (in *productInput) validate() (field, message string) {
	if in.Price.IsNegative() {
		return "price", "price cannot be negative"
	}
	for _, c := range in.Colors {
		if c.Name == "" {
			return "colors", "color name is required"
		}
		if c.Stock < 0 {
			return "colors", "color stock cannot be negative"
		}
	}
	for _, s := range in.Sizes {
		if s.Label == "" {
			return "sizes", "size label is required"
		}
		if s.Stock < 0 {
			return "sizes", "size stock cannot be negative"
		}
	}
	return "", ""
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.GetAll(c.Request.Context())
	if err != nil {
		s.log.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")
	product, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.log.Error("failed to get product", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"field": "", "message": "invalid product payload"})
		return
	}
	if field, message := in.validate(); field != "" {
		c.JSON(http.StatusBadRequest, gin.H{"field": field, "message": message})
		return
	}

	product := in.toModel()
	id, err := s.products.Create(c.Request.Context(), product)
	if err != nil {
		s.log.Error("failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}
	s.publishProductsUpdated("product-create")

	s.log.Info("product created", zap.String("id", id), zap.String("name", product.Name))
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id := c.Param("id")
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"field": "", "message": "invalid product payload"})
		return
	}
	if field, message := in.validate(); field != "" {
		c.JSON(http.StatusBadRequest, gin.H{"field": field, "message": message})
		return
	}

	product := in.toModel()
	if err := s.products.Update(c.Request.Context(), id, product); err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.log.Error("failed to update product", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	s.publishProductsUpdated("product-update")

	s.log.Info("product updated", zap.String("id", id))
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.log.Error("failed to delete product", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	s.publishProductsUpdated("product-delete")

	s.log.Info("product deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// publishProductsUpdated emits the refetch hint. A failed publish is
// logged and otherwise ignored: the mutation already succeeded and the
// hint carries no data.
func (s *Server) publishProductsUpdated(source string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(source); err != nil {
		s.log.Warn("failed to publish productsUpdated", zap.String("source", source), zap.Error(err))
	}
}
