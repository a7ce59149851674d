package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kassa-system/internal/catalog"
	"kassa-system/internal/database/models"
)

type DiscountHandler struct {
	repo *catalog.DiscountRepo
}

func NewDiscountHandler(repo *catalog.DiscountRepo) *DiscountHandler {
	return &DiscountHandler{repo: repo}
}

func (h *DiscountHandler) List(c *gin.Context) {
	var (
		discounts []models.Discount
		err       error
	)
	if c.Query("active") == "true" {
		discounts, err = h.repo.GetActive(c.Request.Context())
	} else {
		discounts, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "discounts": discounts})
}

func (h *DiscountHandler) Create(c *gin.Context) {
	var discount models.Discount
	if err := c.ShouldBindJSON(&discount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid discount payload"})
		return
	}

	if err := h.repo.Create(c.Request.Context(), &discount); err != nil {
		if errors.Is(err, catalog.ErrDiscountInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create discount"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "discount": discount})
}

func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid id"})
		return
	}

	var discount models.Discount
	if err := c.ShouldBindJSON(&discount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid discount payload"})
		return
	}
	discount.ID = id

	if err := h.repo.Update(c.Request.Context(), &discount); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Discount not found"})
		case errors.Is(err, catalog.ErrDiscountInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update discount"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Discount updated"})
}

func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Discount not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete discount"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Discount deleted"})
}
