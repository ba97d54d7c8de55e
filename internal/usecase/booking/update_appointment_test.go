package booking

import (
	"context"
	"testing"
	"time"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/models"
)

func mustBook(t *testing.T, e *env, staffID uint, start time.Time) *models.Appointment {
	t.Helper()
	ap, err := e.create.Execute(context.Background(), e.createInput(staffID, start))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	return ap
}

// Moving an appointment onto a window overlapping its own old one must
// succeed: the booking never conflicts with itself.
func TestRescheduleOverlappingOwnWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap := mustBook(t, e, e.f.staff1.ID, monday(10, 0))

	newStart := monday(10, 30)
	updated, err := e.update.Execute(ctx, UpdateAppointmentInput{
		TenantID:      e.f.tenant.ID,
		AppointmentID: ap.ID,
		Start:         &newStart,
		UpdatedBy:     "test",
	})
	if err != nil {
		t.Fatalf("expected reschedule to pass, got %v", err)
	}

	if !updated.StartTime.Equal(monday(10, 30)) || !updated.EndTime.Equal(monday(11, 30)) {
		t.Errorf("unexpected window: %v - %v", updated.StartTime, updated.EndTime)
	}

	// reservations follow the appointment to the new window
	var res []models.ResourceReservation
	if err := e.db.Where("appointment_id = ?", ap.ID).Find(&res).Error; err != nil {
		t.Fatalf("failed to load reservations: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(res))
	}
	if !res[0].StartTime.Equal(monday(10, 30)) || !res[0].EndTime.Equal(monday(11, 0)) {
		t.Errorf("reservation did not move: %v - %v", res[0].StartTime, res[0].EndTime)
	}
}

func TestRescheduleConflictsWithOtherAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	mustBook(t, e, e.f.staff1.ID, monday(10, 0))
	second := mustBook(t, e, e.f.staff1.ID, monday(14, 0))

	newStart := monday(10, 30)
	_, err := e.update.Execute(ctx, UpdateAppointmentInput{
		TenantID:      e.f.tenant.ID,
		AppointmentID: second.ID,
		Start:         &newStart,
		UpdatedBy:     "test",
	})
	if !httperr.IsBusiness(err, domain.CodeBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
	}

	// the conflict must leave the original booking untouched
	var reloaded models.Appointment
	if err := e.db.First(&reloaded, second.ID).Error; err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if !reloaded.StartTime.Equal(monday(14, 0)) {
		t.Errorf("appointment moved despite conflict: %v", reloaded.StartTime)
	}
}

func TestRescheduleToAnotherStaff(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap := mustBook(t, e, e.f.staff1.ID, monday(10, 0))

	staff2 := e.f.staff2.ID
	updated, err := e.update.Execute(ctx, UpdateAppointmentInput{
		TenantID:      e.f.tenant.ID,
		AppointmentID: ap.ID,
		StaffID:       &staff2,
		UpdatedBy:     "test",
	})
	if err != nil {
		t.Fatalf("expected staff swap to pass, got %v", err)
	}
	if updated.StaffID != staff2 {
		t.Errorf("expected staff %d, got %d", staff2, updated.StaffID)
	}
}

func TestRescheduleCanceledRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap := mustBook(t, e, e.f.staff1.ID, monday(10, 0))
	if _, err := e.cancel.Execute(ctx, e.f.tenant.ID, e.f.staff1.ID, ap.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	newStart := monday(14, 0)
	_, err := e.update.Execute(ctx, UpdateAppointmentInput{
		TenantID:      e.f.tenant.ID,
		AppointmentID: ap.ID,
		Start:         &newStart,
		UpdatedBy:     "test",
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestRescheduleUnknownAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	newStart := monday(14, 0)
	_, err := e.update.Execute(ctx, UpdateAppointmentInput{
		TenantID:      e.f.tenant.ID,
		AppointmentID: 999,
		Start:         &newStart,
		UpdatedBy:     "test",
	})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}
