package sched

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"garage-scheduler-backend/internal/model"
)

// ListResources returns the resource pool, optionally filtered by kind.
// Passing an empty kind lists everything.
func (s *Service) ListResources(ctx context.Context, kind model.ResourceKind) ([]model.Resource, error) {
	q := s.db.WithContext(ctx).Order("kind, name")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var resources []model.Resource
	if err := q.Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// GetStatus returns the current availability state of a resource.
func (s *Service) GetStatus(ctx context.Context, resourceID int64) (model.ResourceStatus, error) {
	var resource model.Resource
	if err := s.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
		}
		return "", err
	}
	return resource.Status, nil
}

// SetStatus changes a resource's availability state. Setting Occupied or
// Working requires an active reservation on the resource; setting Available
// clears the current appointment binding.
func (s *Service) SetStatus(ctx context.Context, resourceID int64, status model.ResourceStatus) error {
	unlock := s.lockResources(resourceID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource model.Resource
		if err := tx.First(&resource, resourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
			}
			return err
		}

		if !resource.Kind.AllowsStatus(status) {
			return fmt.Errorf("status %q is not valid for a %s", status, resource.Kind)
		}

		if status == model.ResourceOccupied || status == model.ResourceWorking {
			var active int64
			if err := tx.Model(&model.Reservation{}).
				Where("resource_id = ?", resourceID).
				Count(&active).Error; err != nil {
				return err
			}
			if active == 0 {
				return fmt.Errorf("cannot mark resource %d %s without an active reservation", resourceID, status)
			}
		}

		resource.Status = status
		if status == model.ResourceAvailable {
			resource.CurrentAppointmentID = nil
		}
		return tx.Save(&resource).Error
	})
}

// SeedResources populates the registry with a default pool of bays and
// technicians when it is empty. Existing resources are left untouched.
func (s *Service) SeedResources(ctx context.Context, bays, technicians int) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Resource{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	resources := make([]model.Resource, 0, bays+technicians)
	for i := 1; i <= bays; i++ {
		resources = append(resources, model.Resource{
			Kind:   model.KindBay,
			Name:   fmt.Sprintf("Bay-%d", i),
			Status: model.ResourceAvailable,
		})
	}
	for i := 1; i <= technicians; i++ {
		resources = append(resources, model.Resource{
			Kind:   model.KindTechnician,
			Name:   fmt.Sprintf("Tech-%d", i),
			Status: model.ResourceAvailable,
		})
	}
	if len(resources) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&resources).Error
}
