package models

import "time"

// ResourceType is a logical equipment category ("Grooming Tub").
type ResourceType struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resource is a concrete unit of a ResourceType. Total concurrent
// capacity for a type is the sum of Capacity over its active resources.
type Resource struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	TenantID       uint `gorm:"index" json:"tenant_id"`
	LocationID     uint `json:"location_id"`
	ResourceTypeID uint `gorm:"index" json:"resource_type_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Active   bool   `gorm:"default:true" json:"active"`
	Capacity int    `gorm:"default:1" json:"capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
