package sched

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"garage-scheduler-backend/internal/model"
)

// QuoteInput carries the intake fields for a new quote, supplied by the
// quotation builder with denormalized customer/vehicle display strings.
type QuoteInput struct {
	CustomerName string
	VehicleID    string
	ServiceType  string
	Total        float64
	Priority     model.Priority
}

// CreateQuote registers a new pending quote.
func (s *Service) CreateQuote(ctx context.Context, in QuoteInput) (*model.Quote, error) {
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	quote := model.Quote{
		CustomerName: in.CustomerName,
		VehicleID:    in.VehicleID,
		ServiceType:  in.ServiceType,
		Total:        in.Total,
		Priority:     in.Priority,
		Status:       model.QuotePending,
	}
	if err := s.db.WithContext(ctx).Create(&quote).Error; err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	return &quote, nil
}

// Approve marks a pending quote Approved and creates its job order with no
// resources bound yet. Scheduling stays a separate explicit step so an
// approved quote can sit unscheduled until a technician and time are chosen.
func (s *Service) Approve(ctx context.Context, quoteID int64) (*model.JobOrder, error) {
	var jobOrder model.JobOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := getQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if quote.Status.Decided() {
			return fmt.Errorf("quote %d is %s: %w", quoteID, quote.Status, ErrAlreadyDecided)
		}

		quote.Status = model.QuoteApproved
		if err := tx.Save(quote).Error; err != nil {
			return err
		}

		jobOrder = model.JobOrder{
			QuoteID:  quote.ID,
			Status:   model.JobOrderCreated,
			Priority: quote.Priority,
		}
		return tx.Create(&jobOrder).Error
	})
	if err != nil {
		return nil, err
	}
	return &jobOrder, nil
}

// Reject marks a pending quote Rejected. No job order is ever created for it.
func (s *Service) Reject(ctx context.Context, quoteID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := getQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if quote.Status.Decided() {
			return fmt.Errorf("quote %d is %s: %w", quoteID, quote.Status, ErrAlreadyDecided)
		}
		quote.Status = model.QuoteRejected
		return tx.Save(quote).Error
	})
}

func getQuote(tx *gorm.DB, quoteID int64) (*model.Quote, error) {
	var quote model.Quote
	if err := tx.First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
		}
		return nil, err
	}
	return &quote, nil
}

// Schedule books a created job order onto a bay and a technician for
// [start, start+estimated) and binds a Scheduled appointment to it. Both
// reservations happen in one transaction: if either resource conflicts, the
// whole operation rolls back and the caller gets the conflicting windows.
func (s *Service) Schedule(ctx context.Context, jobOrderID, technicianID, bayID int64, start time.Time, estimated time.Duration) (*model.Appointment, error) {
	if estimated <= 0 {
		return nil, fmt.Errorf("estimated duration %s: %w", estimated, ErrInvalidWindow)
	}
	end := start.Add(estimated)

	unlock := s.lockResources(bayID, technicianID)
	defer unlock()

	var appointment model.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jobOrder model.JobOrder
		if err := tx.First(&jobOrder, jobOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("job order %d: %w", jobOrderID, ErrNotFound)
			}
			return err
		}
		if jobOrder.Status != model.JobOrderCreated {
			return &InvalidTransitionError{
				From:      string(jobOrder.Status),
				Attempted: string(model.JobOrderScheduled),
			}
		}

		quote, err := getQuote(tx, jobOrder.QuoteID)
		if err != nil {
			return err
		}

		if err := requireKind(tx, bayID, model.KindBay); err != nil {
			return err
		}
		if err := requireKind(tx, technicianID, model.KindTechnician); err != nil {
			return err
		}

		appointment = model.Appointment{
			JobOrderID:       &jobOrder.ID,
			CustomerName:     quote.CustomerName,
			VehicleID:        quote.VehicleID,
			ServiceType:      quote.ServiceType,
			ScheduledStart:   start,
			ScheduledEnd:     end,
			BayID:            &bayID,
			TechnicianID:     &technicianID,
			Priority:         jobOrder.Priority,
			Status:           model.AppointmentScheduled,
			EstimatedMinutes: int(estimated / time.Minute),
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}

		if err := reserveTx(tx, bayID, start, end, appointment.ID); err != nil {
			return err
		}
		if err := reserveTx(tx, technicianID, start, end, appointment.ID); err != nil {
			return err
		}

		jobOrder.TechnicianID = &technicianID
		jobOrder.BayID = &bayID
		jobOrder.EstimatedStart = &start
		jobOrder.EstimatedMinutes = int(estimated / time.Minute)
		jobOrder.AppointmentID = &appointment.ID
		jobOrder.Status = model.JobOrderScheduled
		return tx.Save(&jobOrder).Error
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func requireKind(tx *gorm.DB, resourceID int64, kind model.ResourceKind) error {
	var resource model.Resource
	if err := tx.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
		}
		return err
	}
	if resource.Kind != kind {
		return fmt.Errorf("resource %d (%s) is not a %s", resourceID, resource.Name, kind)
	}
	return nil
}

// StartJob starts the appointment bound to a job order. The appointment state
// machine mirrors the resulting status back onto the job order.
func (s *Service) StartJob(ctx context.Context, jobOrderID int64) (*model.Appointment, error) {
	appointmentID, err := s.boundAppointmentID(ctx, jobOrderID)
	if err != nil {
		return nil, err
	}
	return s.Start(ctx, appointmentID)
}

// CompleteJob completes the appointment bound to a job order, releasing its
// bay and technician.
func (s *Service) CompleteJob(ctx context.Context, jobOrderID int64) (*model.Appointment, error) {
	appointmentID, err := s.boundAppointmentID(ctx, jobOrderID)
	if err != nil {
		return nil, err
	}
	return s.Complete(ctx, appointmentID)
}

func (s *Service) boundAppointmentID(ctx context.Context, jobOrderID int64) (int64, error) {
	var jobOrder model.JobOrder
	if err := s.db.WithContext(ctx).First(&jobOrder, jobOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("job order %d: %w", jobOrderID, ErrNotFound)
		}
		return 0, err
	}
	if jobOrder.AppointmentID == nil {
		return 0, &InvalidTransitionError{
			From:      string(jobOrder.Status),
			Attempted: string(model.JobOrderInProgress),
		}
	}
	return *jobOrder.AppointmentID, nil
}
