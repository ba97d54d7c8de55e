package models

import "time"

type Staff struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service allow-list entry. A staff member with zero rows is qualified
// for every service; one or more rows restrict them to those services.
type StaffQualification struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TenantID  uint `gorm:"index" json:"tenant_id"`
	StaffID   uint `gorm:"index" json:"staff_id"`
	ServiceID uint `json:"service_id"`

	CreatedAt time.Time `json:"created_at"`
}
