package api

import (
	"errors"
	"net/http"

	"shop-service/internal/auth"
	"shop-service/internal/service"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
)

type createAddressRequest struct {
	Country  string `json:"country" binding:"required"`
	City     string `json:"city" binding:"required"`
	PostCode string `json:"post_code" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

type patchAddressRequest struct {
	Country  *string `json:"country"`
	City     *string `json:"city"`
	PostCode *string `json:"post_code"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

// listAddresses returns the caller's address book
func (h *Handler) listAddresses(c *gin.Context) {
	user := auth.CurrentUser(c)

	addresses, err := h.addresses.List(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list addresses",
		})
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// createAddress adds an address to the caller's address book
func (h *Handler) createAddress(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	address, err := h.addresses.Create(c.Request.Context(), user, service.AddressInput{
		Country:  req.Country,
		City:     req.City,
		PostCode: req.PostCode,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create address",
		})
		return
	}

	c.JSON(http.StatusCreated, address)
}

// getAddress returns one of the caller's addresses
func (h *Handler) getAddress(c *gin.Context) {
	user := auth.CurrentUser(c)

	address, err := h.addresses.Get(c.Request.Context(), user, c.Param("uuid"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Address not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get address",
		})
		return
	}

	c.JSON(http.StatusOK, address)
}

// patchAddress updates the provided fields of one of the caller's addresses
func (h *Handler) patchAddress(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req patchAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	address, err := h.addresses.Update(c.Request.Context(), user, c.Param("uuid"), service.AddressPatch{
		Country:  req.Country,
		City:     req.City,
		PostCode: req.PostCode,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Address not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update address",
		})
		return
	}

	c.JSON(http.StatusOK, address)
}

// deleteAddress removes one of the caller's addresses
func (h *Handler) deleteAddress(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := h.addresses.Delete(c.Request.Context(), user, c.Param("uuid")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Address not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete address",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
