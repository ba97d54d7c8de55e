package booking

import "time"

type AvailabilityQuery struct {
	TenantID             uint
	StaffID              *uint
	LocationID           uint
	Start                time.Time
	End                  time.Time
	ExcludeAppointmentID uint
}

type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type CapacityQuery struct {
	TenantID       uint
	ResourceTypeID uint
	Quantity       int
	Start          time.Time
	End            time.Time

	// ExcludeHoldID keeps a caller's own hold out of the used count
	// when re-validating after acquisition.
	ExcludeHoldID string
}

type CapacityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ResourceNeed is one resolved requirement of a service variant for a
// concrete booking window.
type ResourceNeed struct {
	ResourceTypeID uint
	Quantity       int
	Start          time.Time
	End            time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
