package sched

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"garage-scheduler-backend/internal/model"
)

// Start moves an appointment from Scheduled to InProgress, records the actual
// start time and marks its bay Occupied and its technician Working.
func (s *Service) Start(ctx context.Context, appointmentID int64) (*model.Appointment, error) {
	return s.transition(ctx, appointmentID, model.AppointmentInProgress)
}

// Complete moves an appointment from InProgress to Completed, records the
// actual end time and releases every resource reserved for it.
func (s *Service) Complete(ctx context.Context, appointmentID int64) (*model.Appointment, error) {
	return s.transition(ctx, appointmentID, model.AppointmentCompleted)
}

// Cancel aborts an appointment from Scheduled or InProgress and releases every
// resource reserved for it. Completed and cancelled appointments cannot be
// cancelled again.
func (s *Service) Cancel(ctx context.Context, appointmentID int64) (*model.Appointment, error) {
	return s.transition(ctx, appointmentID, model.AppointmentCancelled)
}

// transition applies one state-machine move in a single transaction. An
// illegal move fails with InvalidTransitionError and mutates nothing.
func (s *Service) transition(ctx context.Context, appointmentID int64, next model.AppointmentStatus) (*model.Appointment, error) {
	// Snapshot the resource ids first so their locks can be taken before the
	// transaction opens.
	peek, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	unlock := s.lockResources(boundResourceIDs(peek)...)
	defer unlock()

	var appointment model.Appointment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appointment, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("appointment %d: %w", appointmentID, ErrNotFound)
			}
			return err
		}

		if !appointment.Status.CanTransitionTo(next) {
			return &InvalidTransitionError{
				From:      string(appointment.Status),
				Attempted: string(next),
			}
		}

		now := s.now()
		switch next {
		case model.AppointmentInProgress:
			appointment.ActualStart = &now
			if err := occupyResource(tx, appointment.BayID, model.ResourceOccupied, appointment.ID); err != nil {
				return err
			}
			if err := occupyResource(tx, appointment.TechnicianID, model.ResourceWorking, appointment.ID); err != nil {
				return err
			}

		case model.AppointmentCompleted:
			appointment.ActualEnd = &now
			appointment.PercentComplete = 100
			if err := releaseBound(tx, &appointment, now); err != nil {
				return err
			}

		case model.AppointmentCancelled:
			if err := releaseBound(tx, &appointment, now); err != nil {
				return err
			}
		}

		appointment.Status = next
		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		return mirrorJobOrder(tx, &appointment)
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// occupyResource binds a resource to the appointment it is actively serving.
func occupyResource(tx *gorm.DB, resourceID *int64, status model.ResourceStatus, appointmentID int64) error {
	if resourceID == nil {
		return nil
	}
	var resource model.Resource
	if err := tx.First(&resource, *resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("resource %d: %w", *resourceID, ErrNotFound)
		}
		return err
	}
	resource.Status = status
	resource.CurrentAppointmentID = &appointmentID
	return tx.Save(&resource).Error
}

// releaseBound releases every resource reserved for the appointment.
func releaseBound(tx *gorm.DB, a *model.Appointment, now time.Time) error {
	for _, id := range boundResourceIDs(a) {
		if err := releaseTx(tx, id, a.ID, now); err != nil {
			return err
		}
	}
	return nil
}

func boundResourceIDs(a *model.Appointment) []int64 {
	var ids []int64
	if a.BayID != nil {
		ids = append(ids, *a.BayID)
	}
	if a.TechnicianID != nil {
		ids = append(ids, *a.TechnicianID)
	}
	return ids
}

// mirrorJobOrder reflects the appointment's status onto its owning job order.
func mirrorJobOrder(tx *gorm.DB, a *model.Appointment) error {
	if a.JobOrderID == nil {
		return nil
	}
	return tx.Model(&model.JobOrder{}).
		Where("id = ?", *a.JobOrderID).
		Update("status", model.MirrorAppointmentStatus(a.Status)).Error
}

// GetAppointment returns one appointment by id.
func (s *Service) GetAppointment(ctx context.Context, appointmentID int64) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := s.db.WithContext(ctx).First(&appointment, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %d: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}
	return &appointment, nil
}

// ListAppointments returns appointments ordered for display: urgent first,
// then by scheduled start. Priority only affects ordering, never scheduling.
func (s *Service) ListAppointments(ctx context.Context, status model.AppointmentStatus) ([]model.Appointment, error) {
	q := s.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var appointments []model.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Priority.Rank() != appointments[j].Priority.Rank() {
			return appointments[i].Priority.Rank() < appointments[j].Priority.Rank()
		}
		return appointments[i].ScheduledStart.Before(appointments[j].ScheduledStart)
	})
	return appointments, nil
}
