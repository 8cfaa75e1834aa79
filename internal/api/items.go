package api

import (
	"errors"
	"net/http"

	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
)

// listItems returns the item catalog
func (h *Handler) listItems(c *gin.Context) {
	items, err := h.catalog.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list items",
		})
		return
	}

	c.JSON(http.StatusOK, items)
}

// getItem returns one catalog item
func (h *Handler) getItem(c *gin.Context) {
	item, err := h.catalog.GetItem(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get item",
		})
		return
	}

	c.JSON(http.StatusOK, item)
}
