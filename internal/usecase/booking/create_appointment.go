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

type CreateAppointmentInput struct {
	TenantID   uint
	LocationID uint
	CustomerID uint
	StaffID    uint

	ServiceID     uint
	ServiceItemID uint
	PetID         *uint

	Start time.Time
	// End is optional; when zero it is derived from the service
	// item's duration.
	End time.Time

	Notes     string
	CreatedBy string
}

func (in CreateAppointmentInput) fieldErrors() map[string]string {
	fields := map[string]string{}

	if in.TenantID == 0 {
		fields["tenant_id"] = "required"
	}
	if in.LocationID == 0 {
		fields["location_id"] = "required"
	}
	if in.CustomerID == 0 {
		fields["customer_id"] = "required"
	}
	if in.StaffID == 0 {
		fields["staff_id"] = "required"
	}
	if in.ServiceID == 0 {
		fields["service_id"] = "required"
	}
	if in.ServiceItemID == 0 {
		fields["service_item_id"] = "required"
	}
	if in.Start.IsZero() {
		fields["start"] = "required"
	}
	if !in.End.IsZero() && !in.End.After(in.Start) {
		fields["end"] = "must be after start"
	}

	return fields
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment is the booking orchestrator: validate, check staff
// availability, check resource capacity, acquire a hold, commit the
// appointment and its reservations atomically, release the hold.
type CreateAppointment struct {
	repo   domain.Repository
	holds  *hold.Manager
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	holds *hold.Manager,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		holds:  holds,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Validation
	// --------------------------------------------------
	if fields := in.fieldErrors(); len(fields) > 0 {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, fields)
	}

	item, err := uc.repo.GetServiceItem(ctx, in.TenantID, in.ServiceItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, map[string]string{
			"service_item_id": "not found",
		})
	}
	if err != nil {
		return nil, err
	}
	if item.ServiceID != in.ServiceID {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, map[string]string{
			"service_item_id": "does not belong to the requested service",
		})
	}

	end := in.End
	if end.IsZero() {
		end = in.Start.Add(time.Duration(item.DurationMin) * time.Minute)
	}
	if !end.After(in.Start) {
		return nil, httperr.ErrValidation(domain.CodeValidationFailed, map[string]string{
			"end": "must be after start",
		})
	}

	// --------------------------------------------------
	// 2. Staff qualification (empty allow-list = unrestricted)
	// --------------------------------------------------
	if err := checkQualification(ctx, uc.repo, in.StaffID, in.ServiceID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Staff availability
	// --------------------------------------------------
	staffID := in.StaffID
	avail, err := NewCheckAvailability(uc.repo).Execute(ctx, domain.AvailabilityQuery{
		TenantID:   in.TenantID,
		StaffID:    &staffID,
		LocationID: in.LocationID,
		Start:      in.Start,
		End:        end,
	})
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, httperr.ErrBusinessMsg(domain.CodeBookingConflict, avail.Reason)
	}

	// --------------------------------------------------
	// 4. Resource capacity
	// --------------------------------------------------
	needs := resourceNeeds(item, in.Start, end)

	capUC := NewCheckResourceCapacity(uc.repo)
	for _, need := range needs {
		res, err := capUC.Execute(ctx, domain.CapacityQuery{
			TenantID:       in.TenantID,
			ResourceTypeID: need.ResourceTypeID,
			Quantity:       need.Quantity,
			Start:          need.Start,
			End:            need.End,
		})
		if err != nil {
			return nil, err
		}
		if !res.Available {
			return nil, httperr.ErrBusinessMsg(domain.CodeResourceConflict, res.Reason)
		}
	}

	// --------------------------------------------------
	// 5. Hold — serializes everyone racing for this slot. A
	//    collision here is the race the hold exists for, even when
	//    step 3 passed moments earlier.
	// --------------------------------------------------
	h, err := uc.holds.Create(ctx, hold.Request{
		TenantID:   in.TenantID,
		LocationID: in.LocationID,
		CustomerID: in.CustomerID,
		CreatedBy:  in.CreatedBy,
		StaffID:    in.StaffID,
		Start:      in.Start,
		End:        end,
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
	// 6. Atomic commit, re-validating under the hold
	// --------------------------------------------------
	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		count, err := tx.CountOverlappingAppointments(
			ctx, in.TenantID, in.StaffID, in.Start, end, 0,
		)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusinessMsg(
				domain.CodeBookingConflict, domain.ReasonOverlappingAppointment,
			)
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

		ap = &models.Appointment{
			TenantID:      in.TenantID,
			LocationID:    in.LocationID,
			CustomerID:    in.CustomerID,
			StaffID:       in.StaffID,
			ServiceID:     in.ServiceID,
			ServiceItemID: item.ID,
			PetID:         in.PetID,
			StartTime:     in.Start,
			EndTime:       end,
			Status:        string(domain.InitialStatus()),
			Notes:         in.Notes,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.CreateReservations(ctx, fanOutReservations(ap, needs))
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Audit + best-effort notification
	// --------------------------------------------------
	staff := in.StaffID
	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		StaffID:  &staff,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.notify.Dispatch(notify.Event{
		TenantID:      in.TenantID,
		AppointmentID: ap.ID,
		Action:        "created",
	})

	return ap, nil
}

// ======================================================
// HELPERS (shared with reschedule)
// ======================================================

func checkQualification(
	ctx context.Context,
	repo domain.Repository,
	staffID uint,
	serviceID uint,
) error {

	allowed, err := repo.ListQualifiedServiceIDs(ctx, staffID)
	if err != nil {
		return err
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, id := range allowed {
		if id == serviceID {
			return nil
		}
	}
	return httperr.ErrBusinessMsg(
		domain.CodeStaffNotQualified,
		"Staff member is not qualified for this service",
	)
}

// resourceNeeds resolves a service item's requirements to concrete
// windows. A requirement may occupy its resource for less time than
// the appointment itself (a tub is only needed for the bath).
func resourceNeeds(
	item *models.ServiceItem,
	start time.Time,
	end time.Time,
) []domain.ResourceNeed {

	needs := make([]domain.ResourceNeed, 0, len(item.RequiredResources))
	for _, rr := range item.RequiredResources {
		needEnd := end
		if rr.DurationMin > 0 {
			needEnd = start.Add(time.Duration(rr.DurationMin) * time.Minute)
		}

		qty := rr.Quantity
		if qty <= 0 {
			qty = 1
		}

		needs = append(needs, domain.ResourceNeed{
			ResourceTypeID: rr.ResourceTypeID,
			Quantity:       qty,
			Start:          start,
			End:            needEnd,
		})
	}
	return needs
}

// fanOutReservations expands each need into one reservation row per
// unit.
func fanOutReservations(
	ap *models.Appointment,
	needs []domain.ResourceNeed,
) []models.ResourceReservation {

	var rs []models.ResourceReservation
	for _, need := range needs {
		for i := 0; i < need.Quantity; i++ {
			rs = append(rs, models.ResourceReservation{
				TenantID:       ap.TenantID,
				LocationID:     ap.LocationID,
				AppointmentID:  ap.ID,
				ResourceTypeID: need.ResourceTypeID,
				StartTime:      need.Start,
				EndTime:        need.End,
			})
		}
	}
	return rs
}
