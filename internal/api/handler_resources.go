package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"garage-scheduler-backend/internal/model"
)

// GetResources handles GET /api/resources?kind=bay|technician.
func (h *Handler) GetResources(c *gin.Context) {
	kind := model.ResourceKind(c.Query("kind"))
	if kind != "" && kind != model.KindBay && kind != model.KindTechnician {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource kind"})
		return
	}

	resources, err := h.svc.ListResources(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// GetResourceStatus handles GET /api/resources/{resource_id}/status.
func (h *Handler) GetResourceStatus(c *gin.Context) {
	resourceID, ok := paramID(c, "resource_id")
	if !ok {
		return
	}

	status, err := h.svc.GetStatus(c.Request.Context(), resourceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": resourceID, "status": status})
}

type putStatusRequest struct {
	Status model.ResourceStatus `json:"status" binding:"required"`
}

// PutResourceStatus handles PUT /api/resources/{resource_id}/status.
func (h *Handler) PutResourceStatus(c *gin.Context) {
	resourceID, ok := paramID(c, "resource_id")
	if !ok {
		return
	}

	var req putStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), resourceID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetReservations handles GET /api/resources/{resource_id}/reservations.
func (h *Handler) GetReservations(c *gin.Context) {
	resourceID, ok := paramID(c, "resource_id")
	if !ok {
		return
	}

	reservations, err := h.svc.Reservations(c.Request.Context(), resourceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetAvailability handles GET /api/resources/{resource_id}/availability
// with RFC3339 from/to query parameters.
func (h *Handler) GetAvailability(c *gin.Context) {
	resourceID, ok := paramID(c, "resource_id")
	if !ok {
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp format. Use RFC3339."})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp format. Use RFC3339."})
		return
	}

	windows, err := h.svc.FreeWindows(c.Request.Context(), resourceID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

// paramID parses an int64 path parameter, responding 400 on bad input.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
