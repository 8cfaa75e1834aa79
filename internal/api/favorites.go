package api

import (
	"errors"
	"fmt"
	"net/http"

	"shop-service/internal/auth"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
)

type createFavoriteRequest struct {
	Data struct {
		Attributes struct {
			ItemUUID string `json:"item_uuid" binding:"required"`
		} `json:"attributes" binding:"required"`
	} `json:"data" binding:"required"`
}

// listFavorites returns the caller's favorites
func (h *Handler) listFavorites(c *gin.Context) {
	user := auth.CurrentUser(c)

	favorites, err := h.favorites.List(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list favorites",
		})
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// createFavorite bookmarks an item for the caller. Re-adding an item
// that is already a favorite returns the existing one with 200.
func (h *Handler) createFavorite(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req createFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	itemUUID := req.Data.Attributes.ItemUUID
	favorite, created, err := h.favorites.Add(c.Request.Context(), user, itemUUID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": fmt.Sprintf("Item %s doesn't exist", itemUUID),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create favorite",
		})
		return
	}

	if !created {
		c.JSON(http.StatusOK, favorite)
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

// deleteFavorite removes one of the caller's favorites. A favorite
// owned by someone else is reported as missing, not forbidden.
func (h *Handler) deleteFavorite(c *gin.Context) {
	user := auth.CurrentUser(c)
	favoriteUUID := c.Param("uuid")

	if err := h.favorites.Remove(c.Request.Context(), user, favoriteUUID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": fmt.Sprintf("Favorite %s not found", favoriteUUID),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete favorite",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Favorite %s deleted", favoriteUUID),
	})
}
