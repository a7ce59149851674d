package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kassa-system/internal/register"
)

// RegisterHandler exposes the active-sale lifecycle over HTTP. It only
// translates between JSON and the register service; every rule lives in
// the service and below.
type RegisterHandler struct {
	service *register.Service
}

func NewRegisterHandler(service *register.Service) *RegisterHandler {
	return &RegisterHandler{service: service}
}

type cartRequest struct {
	register.Cart
	DiscountBarcode string `json:"discount_barcode"`
}

type holdRequest struct {
	ActiveSaleID int64  `json:"active_sale_id" binding:"required"`
	Notes        string `json:"notes"`
}

type checkoutRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	NeedsInvoice    bool   `json:"needs_invoice"`
	Notes           string `json:"notes"`
	DiscountBarcode string `json:"discount_barcode"`
}

func (h *RegisterHandler) GetCart(c *gin.Context) {
	row, cart, err := h.service.CurrentCart(c.Request.Context())
	if err != nil {
		if errors.Is(err, register.ErrNoCurrentSale) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "No sale in progress",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"active_sale": row,
		"cart":        cart,
	})
}

func (h *RegisterHandler) UpdateCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid cart payload",
		})
		return
	}

	row, err := h.service.BeginOrUpdateCart(c.Request.Context(), req.Cart)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to persist cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"active_sale": row,
	})
}

func (h *RegisterHandler) ComputeTotals(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid cart payload",
		})
		return
	}

	if err := register.ValidateCart(req.Cart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	result, err := h.service.ComputeTotals(c.Request.Context(), req.Cart, req.DiscountBarcode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to compute totals",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"subtotal":           result.Subtotal.StringFixed(2),
		"discount_amount":    result.DiscountAmount.StringFixed(2),
		"total":              result.Total.StringFixed(2),
		"applied_percentage": result.AppliedPercentage,
		"applied_fixed":      result.AppliedFixed,
		"barcode_matched":    result.BarcodeMatched,
	})
}

func (h *RegisterHandler) PutOnHold(c *gin.Context) {
	var req holdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "active_sale_id required",
		})
		return
	}

	if err := h.service.PutOnHold(c.Request.Context(), req.ActiveSaleID, req.Notes); err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sale put on hold",
	})
}

func (h *RegisterHandler) Resume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid id",
		})
		return
	}

	if err := h.service.Resume(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sale resumed",
	})
}

func (h *RegisterHandler) ListHeld(c *gin.Context) {
	held, err := h.service.HeldSales(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"held_sales": held,
	})
}

func (h *RegisterHandler) Clear(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid id",
		})
		return
	}

	if err := h.service.Clear(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sale cleared",
	})
}

func (h *RegisterHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "payment_method required",
		})
		return
	}

	sale, err := h.service.Checkout(c.Request.Context(), register.CheckoutRequest{
		PaymentMethod: req.PaymentMethod,
		NeedsInvoice:  req.NeedsInvoice,
		Notes:         req.Notes,
	}, req.DiscountBarcode)
	if err != nil {
		switch {
		case errors.Is(err, register.ErrNoCurrentSale):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "No sale in progress",
			})
		case errors.Is(err, register.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Cart is empty",
			})
		case errors.Is(err, register.ErrDiscountNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Discount barcode not recognized",
			})
		case errors.Is(err, register.ErrCommitFailed):
			// The cart is untouched; the cashier can retry.
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Checkout failed, sale was not recorded",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Database error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sale completed",
		"sale":    sale,
	})
}

func (h *RegisterHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, register.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Active sale not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Database error",
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, register.ErrQuantityInvalid) ||
		errors.Is(err, register.ErrPriceInvalid) ||
		errors.Is(err, register.ErrDiscountPercentInvalid)
}
