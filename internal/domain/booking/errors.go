package booking

// Error codes surfaced to callers. Conflicts are expected control flow:
// the caller retries with another staff candidate or another time,
// never against the same slot.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeStaffNotQualified = "STAFF_NOT_QUALIFIED"
	CodeBookingConflict   = "BOOKING_CONFLICT"
	CodeBookingHoldExists = "BOOKING_HOLD_EXISTS"
	CodeResourceConflict  = "RESOURCE_CONFLICT"
)

// Human reasons attached to availability and capacity verdicts.
const (
	ReasonOverlappingAppointment = "Overlapping appointment"
	ReasonStaffTimeOff           = "Staff time off"
	ReasonNoSchedule             = "No schedule for this day"
	ReasonOutsideWorkingHours    = "Outside working hours"
	ReasonBreakOverlap           = "Overlaps with break time"
	ReasonSlotHeld               = "Slot is being booked by another request"
	ReasonNoResources            = "No resources of this type available"
	ReasonCapacityExhausted      = "Not enough resource capacity in this window"
)
