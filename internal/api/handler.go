package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FavoritesService is the favorites surface consumed by the handlers.
type FavoritesService interface {
	List(ctx context.Context, user *models.User) ([]models.FavoriteView, error)
	Add(ctx context.Context, user *models.User, itemUUID string) (*models.FavoriteView, bool, error)
	Remove(ctx context.Context, user *models.User, favoriteUUID string) error
}

// OrdersService is the orders surface consumed by the handlers.
type OrdersService interface {
	List(ctx context.Context) ([]models.OrderView, error)
	Get(ctx context.Context, orderUUID string) (*models.OrderView, error)
	Create(ctx context.Context, user *models.User, req service.OrderRequest) (*models.OrderView, error)
	Replace(ctx context.Context, user *models.User, orderUUID string, req service.OrderRequest) (*models.OrderView, error)
	Delete(ctx context.Context, user *models.User, orderUUID string) error
}

// AddressesService is the address book surface consumed by the handlers.
type AddressesService interface {
	List(ctx context.Context, user *models.User) ([]models.AddressView, error)
	Create(ctx context.Context, user *models.User, input service.AddressInput) (*models.AddressView, error)
	Get(ctx context.Context, user *models.User, addressUUID string) (*models.AddressView, error)
	Update(ctx context.Context, user *models.User, addressUUID string, patch service.AddressPatch) (*models.AddressView, error)
	Delete(ctx context.Context, user *models.User, addressUUID string) error
}

// CatalogService is the read-only item surface consumed by the handlers.
type CatalogService interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, itemUUID string) (*models.Item, error)
}

// Handler contains HTTP handlers
type Handler struct {
	favorites FavoritesService
	orders    OrdersService
	addresses AddressesService
	catalog   CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(favorites FavoritesService, orders OrdersService, addresses AddressesService, catalog CatalogService) *Handler {
	return &Handler{
		favorites: favorites,
		orders:    orders,
		addresses: addresses,
		catalog:   catalog,
	}
}

// SetupRoutes sets up HTTP routes. authRequired guards the routes that
// need a resolved caller; order and catalog reads stay open, matching
// the system this replaces.
func (h *Handler) SetupRoutes(router *gin.Engine, authRequired gin.HandlerFunc) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/items", h.listItems)
		v1.GET("/items/:uuid", h.getItem)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:uuid", h.getOrder)
	}

	authed := v1.Group("", authRequired)
	{
		authed.GET("/favorites", h.listFavorites)
		authed.POST("/favorites", h.createFavorite)
		authed.DELETE("/favorites/:uuid", h.deleteFavorite)

		authed.POST("/orders", h.createOrder)
		authed.PATCH("/orders/:uuid", h.patchOrder)
		authed.DELETE("/orders/:uuid", h.deleteOrder)

		authed.GET("/addresses", h.listAddresses)
		authed.POST("/addresses", h.createAddress)
		authed.GET("/addresses/:uuid", h.getAddress)
		authed.PATCH("/addresses/:uuid", h.patchAddress)
		authed.DELETE("/addresses/:uuid", h.deleteAddress)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
