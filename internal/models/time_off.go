package models

import "time"

// TimeOff blocks a staff member for the half-open UTC interval
// [StartTime, EndTime). Invariant: StartTime < EndTime.
type TimeOff struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`
	StaffID  uint `gorm:"index" json:"staff_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
