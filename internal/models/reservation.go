package models

import "time"

// ResourceReservation claims one unit of a resource type for the
// lifetime of its parent appointment — one row per required unit.
// Rows are created with the appointment, rewritten on reschedule and
// deleted on cancellation.
type ResourceReservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID   uint `gorm:"index" json:"tenant_id"`
	LocationID uint `json:"location_id"`

	AppointmentID  uint `gorm:"index" json:"appointment_id"`
	ResourceTypeID uint `gorm:"index" json:"resource_type_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}
