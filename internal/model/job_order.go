package model

import "time"

// JobOrderStatus tracks a work order from creation through completion.
type JobOrderStatus string

const (
	JobOrderCreated    JobOrderStatus = "created"
	JobOrderScheduled  JobOrderStatus = "scheduled"
	JobOrderInProgress JobOrderStatus = "in_progress"
	JobOrderCompleted  JobOrderStatus = "completed"
	JobOrderCancelled  JobOrderStatus = "cancelled"
)

// MirrorAppointmentStatus maps an appointment status onto the job order
// status that reflects it. The job order tracks its appointment once bound.
func MirrorAppointmentStatus(s AppointmentStatus) JobOrderStatus {
	switch s {
	case AppointmentScheduled:
		return JobOrderScheduled
	case AppointmentInProgress:
		return JobOrderInProgress
	case AppointmentCompleted:
		return JobOrderCompleted
	case AppointmentCancelled:
		return JobOrderCancelled
	}
	return JobOrderCreated
}

// JobOrder is the work-tracking entity created when a quote is approved. It
// carries the scheduling inputs (technician, start, estimate) and mirrors the
// status of the appointment bound to it.
type JobOrder struct {
	ID      int64          `gorm:"primaryKey" json:"id"`
	QuoteID int64          `gorm:"uniqueIndex;not null" json:"quoteId"`
	Status  JobOrderStatus `gorm:"size:16;not null;index" json:"status"`

	TechnicianID *int64     `gorm:"index" json:"technicianId"`
	BayID        *int64     `gorm:"index" json:"bayId"`
	EstimatedStart   *time.Time `json:"estimatedStart"`
	EstimatedMinutes int        `gorm:"not null" json:"estimatedMinutes"`
	Priority         Priority   `gorm:"size:16;not null" json:"priority"`

	AppointmentID *int64 `gorm:"index" json:"appointmentId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
