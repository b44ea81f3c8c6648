package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Customers subscribe to appointments to be told when their vehicle is ready.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Appointments []*Appointment `gorm:"many2many:subscription_appointment_mapping;"`
}
