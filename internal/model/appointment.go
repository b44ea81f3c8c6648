package model

import "time"

// AppointmentStatus is the lifecycle state of a scheduled service visit.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

// appointmentTransitions is the single source of truth for legal status moves.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled:  {AppointmentInProgress, AppointmentCancelled},
	AppointmentInProgress: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s AppointmentStatus) Terminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Priority orders appointments in listings. It never preempts a reservation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns the sort rank of a priority; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Appointment is one scheduled service visit: a customer's vehicle, a service
// type, a time window, and the bay/technician bound to it.
type Appointment struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	JobOrderID *int64 `gorm:"index" json:"jobOrderId"`

	// Denormalized display fields supplied by the customer/vehicle directory.
	// The core stores them opaquely and enforces no referential integrity.
	CustomerName string `gorm:"size:256;not null" json:"customerName"`
	VehicleID    string `gorm:"size:64;not null" json:"vehicleId"`
	ServiceType  string `gorm:"size:128;not null" json:"serviceType"`

	ScheduledStart time.Time `gorm:"not null;index" json:"scheduledStart"`
	ScheduledEnd   time.Time `gorm:"not null" json:"scheduledEnd"`

	BayID        *int64 `gorm:"index" json:"bayId"`
	TechnicianID *int64 `gorm:"index" json:"technicianId"`

	Priority Priority          `gorm:"size:16;not null" json:"priority"`
	Status   AppointmentStatus `gorm:"size:16;not null;index" json:"status"`

	EstimatedMinutes int `gorm:"not null" json:"estimatedMinutes"`

	// PercentComplete is advisory progress reporting, clamped to [0,100].
	PercentComplete int `gorm:"not null" json:"percentComplete"`

	ActualStart *time.Time `json:"actualStart"`
	ActualEnd   *time.Time `json:"actualEnd"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ActualMinutes returns the recorded working duration, or 0 while the
// appointment has not yet completed.
func (a *Appointment) ActualMinutes() int {
	if a.ActualStart == nil || a.ActualEnd == nil {
		return 0
	}
	return int(a.ActualEnd.Sub(*a.ActualStart) / time.Minute)
}
