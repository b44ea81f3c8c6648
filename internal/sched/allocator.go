package sched

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"garage-scheduler-backend/internal/model"
)

// Reserve books the half-open window [start, end) on a resource for an
// appointment. It fails with a ConflictError naming every overlapping
// reservation, or with ErrInvalidWindow when the window has no positive
// duration. Touching endpoints do not conflict.
func (s *Service) Reserve(ctx context.Context, resourceID int64, start, end time.Time, appointmentID int64) error {
	if !end.After(start) {
		return fmt.Errorf("window [%s, %s): %w", start.Format(time.RFC3339), end.Format(time.RFC3339), ErrInvalidWindow)
	}

	unlock := s.lockResources(resourceID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return reserveTx(tx, resourceID, start, end, appointmentID)
	})
}

// reserveTx performs the overlap check and the reservation write inside the
// caller's transaction. Callers must hold the resource lock.
func reserveTx(tx *gorm.DB, resourceID int64, start, end time.Time, appointmentID int64) error {
	var resource model.Resource
	if err := tx.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
		}
		return err
	}

	var overlapping []model.Reservation
	if err := tx.Where("resource_id = ? AND start_time < ? AND end_time > ?", resourceID, end, start).
		Order("start_time").
		Find(&overlapping).Error; err != nil {
		return fmt.Errorf("overlap check failed for resource %d: %w", resourceID, err)
	}

	if len(overlapping) > 0 {
		conflict := &ConflictError{ResourceID: resource.ID, ResourceName: resource.Name}
		for _, r := range overlapping {
			conflict.Conflicts = append(conflict.Conflicts, ConflictWindow{
				AppointmentID: r.AppointmentID,
				Start:         r.StartTime,
				End:           r.EndTime,
			})
		}
		return conflict
	}

	reservation := model.Reservation{
		ResourceID:    resourceID,
		AppointmentID: appointmentID,
		StartTime:     start,
		EndTime:       end,
	}
	if err := tx.Create(&reservation).Error; err != nil {
		return fmt.Errorf("failed to create reservation on resource %d: %w", resourceID, err)
	}
	return nil
}

// Release removes an appointment's reservation from a resource and archives it
// with the release time. Releasing a reservation that does not exist is a
// no-op: a second release of the same pair succeeds without any state change.
// The resource returns to Available unless it is in Maintenance or Off.
func (s *Service) Release(ctx context.Context, resourceID, appointmentID int64) error {
	unlock := s.lockResources(resourceID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return releaseTx(tx, resourceID, appointmentID, s.now())
	})
}

// releaseTx archives and deletes the reservation inside the caller's
// transaction. Missing reservations are ignored. Callers must hold the
// resource lock.
func releaseTx(tx *gorm.DB, resourceID, appointmentID int64, now time.Time) error {
	var reservations []model.Reservation
	if err := tx.Where("resource_id = ? AND appointment_id = ?", resourceID, appointmentID).
		Find(&reservations).Error; err != nil {
		return err
	}
	if len(reservations) == 0 {
		return nil
	}

	for _, r := range reservations {
		history := model.ReservationHistory{
			ResourceID:    r.ResourceID,
			AppointmentID: r.AppointmentID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			ReleasedAt:    now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to archive reservation %d: %w", r.ID, err)
		}
		if err := tx.Delete(&model.Reservation{}, r.ID).Error; err != nil {
			return fmt.Errorf("failed to delete reservation %d: %w", r.ID, err)
		}
	}

	var resource model.Resource
	if err := tx.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
		}
		return err
	}

	if resource.CurrentAppointmentID != nil && *resource.CurrentAppointmentID == appointmentID {
		resource.CurrentAppointmentID = nil
	}
	if resource.Status != model.ResourceMaintenance && resource.Status != model.ResourceOff {
		resource.Status = model.ResourceAvailable
	}
	return tx.Save(&resource).Error
}

// Window is a free interval on a resource's calendar.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Reservations lists the active reservations on a resource in start order.
func (s *Service) Reservations(ctx context.Context, resourceID int64) ([]model.Reservation, error) {
	var resource model.Resource
	if err := s.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
		}
		return nil, err
	}

	var reservations []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("start_time").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FreeWindows derives the free intervals on a resource between from and to
// from its active reservation set.
func (s *Service) FreeWindows(ctx context.Context, resourceID int64, from, to time.Time) ([]Window, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("range [%s, %s): %w", from.Format(time.RFC3339), to.Format(time.RFC3339), ErrInvalidWindow)
	}

	reservations, err := s.Reservations(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	windows := []Window{}
	cursor := from
	for _, r := range reservations {
		if !r.Overlaps(from, to) {
			continue
		}
		if r.StartTime.After(cursor) {
			windows = append(windows, Window{Start: cursor, End: r.StartTime})
		}
		if r.EndTime.After(cursor) {
			cursor = r.EndTime
		}
	}
	if cursor.Before(to) {
		windows = append(windows, Window{Start: cursor, End: to})
	}
	return windows, nil
}
