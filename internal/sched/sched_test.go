package sched

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appdb "garage-scheduler-backend/internal/db"
	"garage-scheduler-backend/internal/model"
)

// newTestService creates a Service on a fresh in-memory SQLite database.
func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, appdb.Migrate(db))
	return NewService(db)
}

func createResource(t *testing.T, s *Service, kind model.ResourceKind, name string) model.Resource {
	t.Helper()
	resource := model.Resource{Kind: kind, Name: name, Status: model.ResourceAvailable}
	require.NoError(t, s.db.Create(&resource).Error)
	return resource
}

func createScheduledAppointment(t *testing.T, s *Service, bayID, techID int64, start, end time.Time) model.Appointment {
	t.Helper()
	appointment := model.Appointment{
		CustomerName:     "Dana Fields",
		VehicleID:        "KL-204-XR",
		ServiceType:      "brake service",
		ScheduledStart:   start,
		ScheduledEnd:     end,
		BayID:            &bayID,
		TechnicianID:     &techID,
		Priority:         model.PriorityMedium,
		Status:           model.AppointmentScheduled,
		EstimatedMinutes: int(end.Sub(start) / time.Minute),
	}
	require.NoError(t, s.db.Create(&appointment).Error)

	ctx := context.Background()
	require.NoError(t, s.Reserve(ctx, bayID, start, end, appointment.ID))
	require.NoError(t, s.Reserve(ctx, techID, start, end, appointment.ID))
	return appointment
}

// at builds a timestamp on a fixed test day.
func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 9, hour, min, 0, 0, time.UTC)
}
