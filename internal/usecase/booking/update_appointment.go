package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/audit"
	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/hold"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput is a patch; nil fields keep the current
// value. All checks run against the final patched values.
type UpdateAppointmentInput struct {
	TenantID      uint
	AppointmentID uint

	StaffID       *uint
	ServiceID     *uint
	ServiceItemID *uint
	Start         *time.Time
	End           *time.Time
	Notes         *string

	UpdatedBy string
}

// ======================================================
// USE CASE
// ======================================================

// UpdateAppointment reschedules: it re-runs qualification and
// availability against the final values (excluding the appointment's
// own window from the overlap check), then atomically rewrites the
// appointment and its resource reservations.
type UpdateAppointment struct {
	repo   domain.Repository
	holds  *hold.Manager
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	holds *hold.Manager,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:   repo,
		holds:  holds,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}
	if domain.Status(ap.Status) != domain.StatusScheduled {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	// --------------------------------------------------
	// Resolve final values (patch-or-current)
	// --------------------------------------------------
	finalStaff := ap.StaffID
	if in.StaffID != nil {
		finalStaff = *in.StaffID
	}
	finalServiceID := ap.ServiceID
	if in.ServiceID != nil {
		finalServiceID = *in.ServiceID
	}
	finalItemID := ap.ServiceItemID
	if in.ServiceItemID != nil {
		finalItemID = *in.ServiceItemID
	}
	finalStart := ap.StartTime
	if in.Start != nil {
		finalStart = *in.Start
	}

	item, err := uc.repo.GetServiceItem(ctx, in.TenantID, finalItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, map[string]string{
			"service_item_id": "not found",
		})
	}
	if err != nil {
		return nil, err
	}
	if item.ServiceID != finalServiceID {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, map[string]string{
			"service_item_id": "does not belong to the requested service",
		})
	}

	finalEnd := ap.EndTime
	switch {
	case in.End != nil:
		finalEnd = *in.End
	case in.Start != nil || in.ServiceItemID != nil:
		finalEnd = finalStart.Add(time.Duration(item.DurationMin) * time.Minute)
	}
	if !finalEnd.After(finalStart) {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, map[string]string{
			"end": "must be after start",
		})
	}

	// --------------------------------------------------
	// Qualification + availability against final values
	// --------------------------------------------------
	if err := checkQualification(ctx, uc.repo, finalStaff, finalServiceID); err != nil {
		return nil, err
	}

	staffID := finalStaff
	avail, err := NewCheckAvailability(uc.repo).Execute(ctx, domain.AvailabilityQuery{
		TenantID:             in.TenantID,
		StaffID:              &staffID,
		LocationID:           ap.LocationID,
		Start:                finalStart,
		End:                  finalEnd,
		ExcludeAppointmentID: ap.ID,
	})
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, httperr.ErrBusinessMsg(domain.CodeBookingConflict, avail.Reason)
	}

	needs := resourceNeeds(item, finalStart, finalEnd)

	// --------------------------------------------------
	// Hold on the new window
	// --------------------------------------------------
	h, err := uc.holds.Create(ctx, hold.Request{
		TenantID:   in.TenantID,
		LocationID: ap.LocationID,
		CustomerID: ap.CustomerID,
		CreatedBy:  in.UpdatedBy,
		StaffID:    finalStaff,
		Start:      finalStart,
		End:        finalEnd,
		Resources:  needs,
	})
	if err != nil {
		if httperr.IsBusiness(err, domain.CodeBookingHoldExists) {
			return nil, httperr.ErrBusinessMsg(
				domain.CodeBookingConflict, domain.ReasonSlotHeld,
			)
		}
		return nil, err
	}
	defer uc.holds.Release(ctx, h.ID)

	// --------------------------------------------------
	// Atomic rewrite: delete old reservations first so capacity
	// never counts the appointment against itself, re-validate,
	// then save + recreate.
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		count, err := tx.CountOverlappingAppointments(
			ctx, in.TenantID, finalStaff, finalStart, finalEnd, ap.ID,
		)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusinessMsg(
				domain.CodeBookingConflict, domain.ReasonOverlappingAppointment,
			)
		}

		if err := tx.DeleteReservationsForAppointment(ctx, ap.ID); err != nil {
			return err
		}

		txCap := NewCheckResourceCapacity(tx)
		for _, need := range needs {
			res, err := txCap.Execute(ctx, domain.CapacityQuery{
				TenantID:       in.TenantID,
				ResourceTypeID: need.ResourceTypeID,
				Quantity:       need.Quantity,
				Start:          need.Start,
				End:            need.End,
				ExcludeHoldID:  h.ID,
			})
			if err != nil {
				return err
			}
			if !res.Available {
				return httperr.ErrBusinessMsg(
					domain.CodeResourceConflict, res.Reason,
				)
			}
		}

		ap.StaffID = finalStaff
		ap.ServiceID = finalServiceID
		ap.ServiceItemID = item.ID
		ap.StartTime = finalStart
		ap.EndTime = finalEnd
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}

		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.CreateReservations(ctx, fanOutReservations(ap, needs))
	})
	if err != nil {
		return nil, err
	}

	staff := finalStaff
	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		StaffID:  &staff,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.notify.Dispatch(notify.Event{
		TenantID:      in.TenantID,
		AppointmentID: ap.ID,
		Action:        "updated",
	})

	return ap, nil
}
