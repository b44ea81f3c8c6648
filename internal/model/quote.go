package model

import "time"

// QuoteStatus is the decision state of a priced proposal.
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteApproved QuoteStatus = "approved"
	QuoteRejected QuoteStatus = "rejected"
)

// Decided reports whether the quote has already been approved or rejected.
func (s QuoteStatus) Decided() bool {
	return s == QuoteApproved || s == QuoteRejected
}

// Quote is a priced service proposal. Approving it creates its job order;
// rejecting it ends the lifecycle with no job order ever created.
type Quote struct {
	ID           int64       `gorm:"primaryKey" json:"id"`
	CustomerName string      `gorm:"size:256;not null" json:"customerName"`
	VehicleID    string      `gorm:"size:64;not null" json:"vehicleId"`
	ServiceType  string      `gorm:"size:128;not null" json:"serviceType"`
	Total        float64     `gorm:"not null" json:"total"` // display only, priced upstream
	Priority     Priority    `gorm:"size:16;not null" json:"priority"`
	Status       QuoteStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	// Associations. A quote exclusively owns at most one job order.
	JobOrder *JobOrder `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"jobOrder,omitempty"`
}
