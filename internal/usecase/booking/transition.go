package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/audit"
	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/notify"
	"github.com/groomly/grooming-scheduler/internal/timezone"
)

// ======================================================
// STATUS TRANSITIONS (cancel / complete / no-show)
// ======================================================

type CancelAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
	}
}

// Execute cancels the appointment and drops its resource
// reservations: a canceled booking frees staff and equipment.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, tenant, err := loadForTransition(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(tenant.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.DeleteReservationsForAppointment(ctx, ap.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		StaffID:  &actorID,
		Action:   "appointment_canceled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.notify.Dispatch(notify.Event{
		TenantID:      tenantID,
		AppointmentID: ap.ID,
		Action:        "canceled",
	})

	return ap, nil
}

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{repo: repo, audit: auditDispatcher}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, tenant, err := loadForTransition(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(tenant.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		StaffID:  &actorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *MarkNoShow {
	return &MarkNoShow{repo: repo, audit: auditDispatcher}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, _, err := loadForTransition(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.MarkNoShow(ap); err != nil {
		return nil, err
	}

	// A no-show stops blocking the calendar, so its resource claims
	// go with it.
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.DeleteReservationsForAppointment(ctx, ap.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		StaffID:  &actorID,
		Action:   "appointment_no_show",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func loadForTransition(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, *models.Tenant, error) {

	tenant, err := repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}

	ap, err := repo.GetAppointment(ctx, tenantID, appointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, nil, err
	}

	return ap, tenant, nil
}
