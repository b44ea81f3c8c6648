package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type scheduleRequest struct {
	TechnicianID     int64     `json:"technicianId" binding:"required"`
	BayID            int64     `json:"bayId" binding:"required"`
	Start            time.Time `json:"start" binding:"required"`
	EstimatedMinutes int       `json:"estimatedMinutes" binding:"required"`
}

// ScheduleJobOrder handles POST /api/job-orders/{job_order_id}/schedule.
// Both resource reservations succeed together or not at all.
func (h *Handler) ScheduleJobOrder(c *gin.Context) {
	jobOrderID, ok := paramID(c, "job_order_id")
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := h.svc.Schedule(
		c.Request.Context(),
		jobOrderID,
		req.TechnicianID,
		req.BayID,
		req.Start,
		time.Duration(req.EstimatedMinutes)*time.Minute,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// StartJobOrder handles POST /api/job-orders/{job_order_id}/start.
func (h *Handler) StartJobOrder(c *gin.Context) {
	jobOrderID, ok := paramID(c, "job_order_id")
	if !ok {
		return
	}

	appointment, err := h.svc.StartJob(c.Request.Context(), jobOrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// CompleteJobOrder handles POST /api/job-orders/{job_order_id}/complete and
// dispatches a "vehicle ready" push notification for the appointment.
func (h *Handler) CompleteJobOrder(c *gin.Context) {
	jobOrderID, ok := paramID(c, "job_order_id")
	if !ok {
		return
	}

	appointment, err := h.svc.CompleteJob(c.Request.Context(), jobOrderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(appointment.ID)
	}
	c.JSON(http.StatusOK, appointment)
}
