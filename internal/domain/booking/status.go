package booking

import "github.com/groomly/grooming-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

// Blocking statuses occupy the staff calendar and resource capacity.
// Canceled and no-show appointments free their slot.
func Blocks(s Status) bool {
	return s != StatusCanceled && s != StatusNoShow
}

func InitialStatus() Status {
	return StatusScheduled
}

// ===============================
// Transitions
// ===============================

func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
