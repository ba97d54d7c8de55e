package models

import "time"

const (
	HoldItemStaff    = "staff"
	HoldItemResource = "resource"
)

// BookingHold is a short-lived advisory record that serializes the gap
// between "check availability" and "commit appointment". It is never a
// reservation of record: it is deleted right after the commit attempt
// and swept once ExpiresAt passes.
type BookingHold struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	TenantID   uint `gorm:"index" json:"tenant_id"`
	LocationID uint `json:"location_id"`
	CustomerID uint `json:"customer_id"`

	CreatedBy string    `gorm:"size:50" json:"created_by"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`

	Items []BookingHoldItem `gorm:"foreignKey:HoldID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
}

// BookingHoldItem is one tentative claim inside a hold. Staff items
// are exclusive per (staff, window); resource items carry a quantity
// counted by the capacity accountant alongside confirmed reservations.
type BookingHoldItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	HoldID string `gorm:"index;size:36" json:"hold_id"`

	Kind string `gorm:"size:10" json:"kind"`

	StaffID        *uint `json:"staff_id"`
	ResourceTypeID *uint `json:"resource_type_id"`
	Quantity       int   `gorm:"default:1" json:"quantity"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
