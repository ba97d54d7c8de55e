package models

import "time"

// StaffSchedule is the weekly working-hours template for one staff
// member on one weekday, optionally bound to a location (0 = any).
// Times are local "15:04" strings in the tenant's timezone.
type StaffSchedule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TenantID   uint `gorm:"index" json:"tenant_id"`
	StaffID    uint `gorm:"index" json:"staff_id"`
	LocationID uint `json:"location_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `gorm:"default:true" json:"active"`

	Breaks []ScheduleBreak `gorm:"foreignKey:ScheduleID" json:"breaks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ScheduleBreak struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ScheduleID uint `gorm:"index" json:"schedule_id"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
}
