package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"garage-scheduler-backend/internal/model"
	"garage-scheduler-backend/internal/sched"
)

type createQuoteRequest struct {
	CustomerName string         `json:"customerName" binding:"required"`
	VehicleID    string         `json:"vehicleId" binding:"required"`
	ServiceType  string         `json:"serviceType" binding:"required"`
	Total        float64        `json:"total"`
	Priority     model.Priority `json:"priority"`
}

// PostQuote handles POST /api/quotes, the quote intake endpoint.
func (h *Handler) PostQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.svc.CreateQuote(c.Request.Context(), sched.QuoteInput{
		CustomerName: req.CustomerName,
		VehicleID:    req.VehicleID,
		ServiceType:  req.ServiceType,
		Total:        req.Total,
		Priority:     req.Priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// ApproveQuote handles POST /api/quotes/{quote_id}/approve. On success it
// returns the freshly created job order.
func (h *Handler) ApproveQuote(c *gin.Context) {
	quoteID, ok := paramID(c, "quote_id")
	if !ok {
		return
	}

	jobOrder, err := h.svc.Approve(c.Request.Context(), quoteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobOrder)
}

// RejectQuote handles POST /api/quotes/{quote_id}/reject.
func (h *Handler) RejectQuote(c *gin.Context) {
	quoteID, ok := paramID(c, "quote_id")
	if !ok {
		return
	}

	if err := h.svc.Reject(c.Request.Context(), quoteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetQuotes handles GET /api/quotes for display surfaces.
func GetQuotes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Preload("JobOrder").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var quotes []model.Quote
		if err := q.Find(&quotes).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve quotes"})
			return
		}
		c.JSON(http.StatusOK, quotes)
	}
}

// GetJobOrders handles GET /api/job-orders for display surfaces.
func GetJobOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var jobOrders []model.JobOrder
		if err := q.Find(&jobOrders).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job orders"})
			return
		}
		c.JSON(http.StatusOK, jobOrders)
	}
}
