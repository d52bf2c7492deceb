package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/events"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/orderflow"
)

// ProductsProvider is the slice of the products repository the handlers
// need.
type ProductsProvider interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (string, error)
	Update(ctx context.Context, id string, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

// OrdersProvider is the slice of the orders repository the handlers need.
type OrdersProvider interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, expectedCurrent, newStatus, notes string) error
}

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	HealthCheck() error
}

type Server struct {
	router     *gin.Engine
	products   ProductsProvider
	orders     OrdersProvider
	machine    *orderflow.Machine
	bus        events.Bus
	health     HealthChecker
	log        *zap.Logger
	adminToken string
}

// NewServer wires the API around the given collaborators. The order
// status machine re-asserts the transition table here regardless of what
// the admin UI offered: the client-side check is a convenience, this one
// is the authority.
func NewServer(products ProductsProvider, orders OrdersProvider, machine *orderflow.Machine,
	bus events.Bus, health HealthChecker, log *zap.Logger, adminToken string) *Server {
	router := gin.Default()

	server := &Server{
		router:     router,
		products:   products,
		orders:     orders,
		machine:    machine,
		bus:        bus,
		health:     health,
		log:        log,
		adminToken: adminToken,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
		api.GET("/orders/my-orders", s.myOrders)

		admin := api.Group("/", s.requireAdmin())
		{
			admin.POST("/products", s.createProduct)
			admin.PUT("/products/:id", s.updateProduct)
			admin.DELETE("/products/:id", s.deleteProduct)
			admin.PUT("/admin/orders/:id/status", s.updateOrderStatus)
			admin.POST("/admin/orders/:id/send-status-email", s.sendStatusEmail)
		}
	}
}

// requireAdmin gates the admin surface on the bearer token. A missing
// credential is 401, a wrong one is 403.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if auth != "Bearer "+s.adminToken || s.adminToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient privileges"})
			return
		}
		c.Next()
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.health.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storefront",
		"version": "0.1.0",
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
