package models

import "time"

// Customer without login, scoped to the tenant.
type Customer struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Pet struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TenantID   uint `gorm:"index" json:"tenant_id"`
	CustomerID uint `gorm:"index" json:"customer_id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Species string `gorm:"size:50" json:"species"`
	Breed   string `gorm:"size:50" json:"breed"`
	Notes   string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
