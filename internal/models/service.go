package models

import "time"

type Service struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceItem is one bookable variant of a service (e.g. "Full Groom /
// Large"). It carries the appointment duration and the equipment the
// variant consumes.
type ServiceItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TenantID  uint `gorm:"index" json:"tenant_id"`
	ServiceID uint `gorm:"index" json:"service_id"`

	Variant     string  `gorm:"size:50" json:"variant"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	RequiredResources []ServiceItemResource `gorm:"foreignKey:ServiceItemID" json:"required_resources"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceItemResource struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ServiceItemID uint `gorm:"index" json:"service_item_id"`

	ResourceTypeID uint `json:"resource_type_id"`
	DurationMin    int  `json:"duration_min"`
	Quantity       int  `gorm:"default:1" json:"quantity"`
}
