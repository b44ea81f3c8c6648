package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"garage-scheduler-backend/internal/sched"
)

// Notifier dispatches a completed appointment to the push notification
// worker pool.
type Notifier interface {
	Dispatch(appointmentID int64)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc      *sched.Service
	webpush  *webpush.Options
	notifier Notifier
}

// NewHandler creates a new API handler. notifier may be nil when push
// notifications are not configured.
func NewHandler(svc *sched.Service, webpushOptions *webpush.Options, notifier Notifier) *Handler {
	return &Handler{
		svc:      svc,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}

// respondError maps core error kinds onto HTTP statuses. Conflicts carry the
// overlapping windows so clients can report "bay busy 10:00-12:30".
func respondError(c *gin.Context, err error) {
	var conflict *sched.ConflictError
	var invalid *sched.InvalidTransitionError

	switch {
	case errors.Is(err, sched.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":        conflict.Error(),
			"resourceId":   conflict.ResourceID,
			"resourceName": conflict.ResourceName,
			"conflicts":    conflict.Conflicts,
		})
	case errors.As(err, &invalid):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     invalid.Error(),
			"from":      invalid.From,
			"attempted": invalid.Attempted,
		})
	case errors.Is(err, sched.ErrAlreadyDecided):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sched.ErrInvalidWindow):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
