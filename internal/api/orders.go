package api

import (
	"errors"
	"net/http"

	"shop-service/internal/auth"
	"shop-service/internal/service"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
)

type orderEnvelope struct {
	Order service.OrderRequest `json:"order" binding:"required"`
}

// listOrders returns every order in the system. The endpoint is open,
// matching the system this replaces.
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list orders",
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// getOrder returns one order with its items
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get order",
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// createOrder places an order for the caller
func (h *Handler) createOrder(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req orderEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if len(req.Order.Items) == 0 || req.Order.DeliveryAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Order requires items and delivery_address",
		})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), user, req.Order)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// patchOrder replaces an order's item set and delivery address
func (h *Handler) patchOrder(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req orderEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if len(req.Order.Items) == 0 || req.Order.DeliveryAddress == "" || req.Order.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Order requires items, delivery_address and order_id",
		})
		return
	}

	order, err := h.orders.Replace(c.Request.Context(), user, c.Param("uuid"), req.Order)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// deleteOrder removes an order and all its line items
func (h *Handler) deleteOrder(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := h.orders.Delete(c.Request.Context(), user, c.Param("uuid")); err != nil {
		h.orderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// orderError maps order mutation failures to status codes
func (h *Handler) orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "You can't modify another user's order",
		})
	case errors.Is(err, service.ErrUnknownItems),
		errors.Is(err, service.ErrUnknownAddress),
		errors.Is(err, store.ErrInsufficientAvailability):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process order",
		})
	}
}
