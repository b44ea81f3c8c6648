package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garage-scheduler-backend/internal/model"
)

// GetAppointments handles GET /api/appointments?status=. Results are ordered
// by priority, then scheduled start.
func (h *Handler) GetAppointments(c *gin.Context) {
	status := model.AppointmentStatus(c.Query("status"))
	appointments, err := h.svc.ListAppointments(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// CancelAppointment handles POST /api/appointments/{appointment_id}/cancel.
func (h *Handler) CancelAppointment(c *gin.Context) {
	appointmentID, ok := paramID(c, "appointment_id")
	if !ok {
		return
	}

	appointment, err := h.svc.Cancel(c.Request.Context(), appointmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

type progressRequest struct {
	Percent *int `json:"percent" binding:"required"`
}

// PostProgress handles POST /api/appointments/{appointment_id}/progress.
func (h *Handler) PostProgress(c *gin.Context) {
	appointmentID, ok := paramID(c, "appointment_id")
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RecordProgress(c.Request.Context(), appointmentID, *req.Percent); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetActiveTask handles GET /api/technicians/{resource_id}/active-task.
func (h *Handler) GetActiveTask(c *gin.Context) {
	technicianID, ok := paramID(c, "resource_id")
	if !ok {
		return
	}

	appointment, err := h.svc.ActiveTask(c.Request.Context(), technicianID)
	if err != nil {
		respondError(c, err)
		return
	}
	if appointment == nil {
		c.JSON(http.StatusOK, gin.H{"technicianId": technicianID, "activeTask": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicianId": technicianID, "activeTask": appointment})
}

// GetEfficiency handles GET /api/technicians/{resource_id}/efficiency.
func (h *Handler) GetEfficiency(c *gin.Context) {
	technicianID, ok := paramID(c, "resource_id")
	if !ok {
		return
	}

	stats, err := h.svc.Efficiency(c.Request.Context(), technicianID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
