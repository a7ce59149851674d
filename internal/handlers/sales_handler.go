package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kassa-system/internal/register"
	"kassa-system/internal/sales"
)

type SalesHandler struct {
	repo    *sales.Repo
	service *register.Service
}

func NewSalesHandler(repo *sales.Repo, service *register.Service) *SalesHandler {
	return &SalesHandler{repo: repo, service: service}
}

func (h *SalesHandler) List(c *gin.Context) {
	filter := sales.ListFilter{
		PaymentMethod: c.Query("payment_method"),
		SaleType:      c.Query("sale_type"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t.AddDate(0, 0, 1)
		}
	}

	results, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sales": results, "total": total})
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid id"})
		return
	}

	sale, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Sale not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sale": sale})
}

// DailySummary aggregates one day of the ledger, defaulting to today.
func (h *SalesHandler) DailySummary(c *gin.Context) {
	day := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	summary, err := h.repo.Summarize(c.Request.Context(), from, from.AddDate(0, 0, 1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

type returnRequest struct {
	ItemIDs []int64 `json:"item_ids"`
	Notes   string  `json:"notes"`
}

// CreateReturn builds a return document against a finalized sale.
func (h *SalesHandler) CreateReturn(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid id"})
		return
	}

	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid return payload"})
		return
	}

	returnDoc, err := h.service.CreateReturn(c.Request.Context(), id, req.ItemIDs, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Sale not found"})
		case errors.Is(err, register.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No valid items to return"})
		case errors.Is(err, register.ErrCommitFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Return failed, nothing was recorded"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Return processed", "sale": returnDoc})
}
