package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"garage-scheduler-backend/internal/mw"
	"garage-scheduler-backend/internal/sched"
)

// NewRouter creates and configures a new Gin router. Every scheduling core
// operation maps to one endpoint; read-only display endpoints are cached.
func NewRouter(svc *sched.Service, webpushOptions *webpush.Options, notifier Notifier) *gin.Engine {
	r := gin.Default()

	db := svc.DB()
	handler := NewHandler(svc, webpushOptions, notifier)

	// Rate limit: 10 requests per second with a burst of 5
	rateLimiter := mw.RateLimiter(rate.Limit(10), 5)

	// Cache for read-only display endpoints. Mutating endpoints stay uncached
	// so state transitions are always visible immediately.
	cacheStore := cache.New(30*time.Second, time.Minute)
	caching := mw.Cache(cacheStore, 30*time.Second)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Resource registry
		api.GET("/resources", caching, handler.GetResources)
		api.GET("/resources/:resource_id/status", handler.GetResourceStatus)
		api.PUT("/resources/:resource_id/status", handler.PutResourceStatus)
		api.GET("/resources/:resource_id/reservations", handler.GetReservations)
		api.GET("/resources/:resource_id/availability", handler.GetAvailability)

		// Quote workflow
		api.POST("/quotes", handler.PostQuote)
		api.GET("/quotes", caching, GetQuotes(db))
		api.POST("/quotes/:quote_id/approve", handler.ApproveQuote)
		api.POST("/quotes/:quote_id/reject", handler.RejectQuote)

		// Job orders
		api.GET("/job-orders", caching, GetJobOrders(db))
		api.POST("/job-orders/:job_order_id/schedule", handler.ScheduleJobOrder)
		api.POST("/job-orders/:job_order_id/start", handler.StartJobOrder)
		api.POST("/job-orders/:job_order_id/complete", handler.CompleteJobOrder)

		// Appointments and progress tracking
		api.GET("/appointments", caching, handler.GetAppointments)
		api.POST("/appointments/:appointment_id/cancel", handler.CancelAppointment)
		api.POST("/appointments/:appointment_id/progress", handler.PostProgress)
		api.GET("/technicians/:resource_id/active-task", handler.GetActiveTask)
		api.GET("/technicians/:resource_id/efficiency", handler.GetEfficiency)

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
