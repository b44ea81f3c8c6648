package sched

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"garage-scheduler-backend/internal/model"
)

// RecordProgress stores an advisory completion percentage on an appointment.
// The value is clamped to [0, 100] and never drives the state machine.
func (s *Service) RecordProgress(ctx context.Context, appointmentID int64, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	result := s.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("id = ?", appointmentID).
		Update("percent_complete", percent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("appointment %d: %w", appointmentID, ErrNotFound)
	}
	return nil
}

// ActiveTask returns the appointment a technician is currently working on,
// or nil when the technician has no in-progress appointment.
func (s *Service) ActiveTask(ctx context.Context, technicianID int64) (*model.Appointment, error) {
	if err := s.requireTechnician(ctx, technicianID); err != nil {
		return nil, err
	}

	var appointment model.Appointment
	err := s.db.WithContext(ctx).
		Where("technician_id = ? AND status = ?", technicianID, model.AppointmentInProgress).
		First(&appointment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// TechnicianStats summarizes a technician's completed work.
type TechnicianStats struct {
	TechnicianID     int64   `json:"technicianId"`
	CompletedTasks   int     `json:"completedTasks"`
	EstimatedMinutes int     `json:"estimatedMinutes"`
	ActualMinutes    int     `json:"actualMinutes"`
	Efficiency       float64 `json:"efficiency"`
}

// Efficiency reports estimated-vs-actual hours over a technician's completed
// appointments, as a percentage: above 100 means faster than estimated. It
// returns 0 when the technician has no completed appointments or no recorded
// working time, so there is never a division by zero.
func (s *Service) Efficiency(ctx context.Context, technicianID int64) (TechnicianStats, error) {
	stats := TechnicianStats{TechnicianID: technicianID}

	if err := s.requireTechnician(ctx, technicianID); err != nil {
		return stats, err
	}

	var completed []model.Appointment
	if err := s.db.WithContext(ctx).
		Where("technician_id = ? AND status = ?", technicianID, model.AppointmentCompleted).
		Find(&completed).Error; err != nil {
		return stats, err
	}

	for _, a := range completed {
		stats.CompletedTasks++
		stats.EstimatedMinutes += a.EstimatedMinutes
		stats.ActualMinutes += a.ActualMinutes()
	}
	if stats.ActualMinutes > 0 {
		stats.Efficiency = float64(stats.EstimatedMinutes) / float64(stats.ActualMinutes) * 100
	}
	return stats, nil
}

func (s *Service) requireTechnician(ctx context.Context, technicianID int64) error {
	var resource model.Resource
	if err := s.db.WithContext(ctx).First(&resource, technicianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("technician %d: %w", technicianID, ErrNotFound)
		}
		return err
	}
	if resource.Kind != model.KindTechnician {
		return fmt.Errorf("resource %d (%s) is not a technician", technicianID, resource.Name)
	}
	return nil
}
