package model

import "time"

// ResourceKind distinguishes the two schedulable resource pools.
type ResourceKind string

const (
	KindBay        ResourceKind = "bay"
	KindTechnician ResourceKind = "technician"
)

// ResourceStatus is the live availability state of a resource.
type ResourceStatus string

const (
	ResourceAvailable   ResourceStatus = "available"
	ResourceOccupied    ResourceStatus = "occupied"
	ResourceMaintenance ResourceStatus = "maintenance"
	ResourceBreak       ResourceStatus = "break"
	ResourceOff         ResourceStatus = "off"
	ResourceWorking     ResourceStatus = "working" // technicians only
)

// AllowsStatus reports whether a status is legal for this resource kind.
func (k ResourceKind) AllowsStatus(s ResourceStatus) bool {
	switch s {
	case ResourceAvailable, ResourceOccupied, ResourceMaintenance, ResourceBreak, ResourceOff:
		return true
	case ResourceWorking:
		return k == KindTechnician
	}
	return false
}

// Resource represents one schedulable unit of capacity: a service bay or a technician.
type Resource struct {
	ID     int64          `gorm:"primaryKey" json:"id"`
	Kind   ResourceKind   `gorm:"size:16;index;not null" json:"kind"`
	Name   string         `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Status ResourceStatus `gorm:"size:16;not null" json:"status"`

	// CurrentAppointmentID is a weak reference to the appointment the resource
	// is presently bound to, nil when idle. The resource never owns the appointment.
	CurrentAppointmentID *int64 `gorm:"index" json:"currentAppointmentId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
