package model

import "time"

// Reservation binds one appointment to one resource over a half-open time
// window [StartTime, EndTime). Active reservations live in this hot table;
// released ones are archived to ReservationHistory.
type Reservation struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceID    int64     `gorm:"not null;index" json:"resourceId"`
	AppointmentID int64     `gorm:"not null;index" json:"appointmentId"`
	StartTime     time.Time `gorm:"not null" json:"startTime"`
	EndTime       time.Time `gorm:"not null" json:"endTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Overlaps reports whether the reservation's window overlaps [start, end).
// Touching endpoints do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndTime) && r.StartTime.Before(end)
}

// ReservationHistory is the archived record of a released reservation,
// keeping the originally reserved window plus the moment it was released.
type ReservationHistory struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	ResourceID    int64     `gorm:"not null;index"`
	AppointmentID int64     `gorm:"not null;index"`
	StartTime     time.Time `gorm:"not null"`
	EndTime       time.Time `gorm:"not null"`
	ReleasedAt    time.Time `gorm:"not null;index"`
}
