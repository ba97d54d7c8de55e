package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/models"
)

func TestCreateAppointmentSuccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0)))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if ap.Status != string(domain.StatusScheduled) {
		t.Errorf("expected status scheduled, got %s", ap.Status)
	}
	if !ap.EndTime.Equal(monday(11, 0)) {
		t.Errorf("expected end 11:00, got %v", ap.EndTime)
	}

	// one tub unit reserved for the first half hour
	var res []models.ResourceReservation
	if err := e.db.Where("appointment_id = ?", ap.ID).Find(&res).Error; err != nil {
		t.Fatalf("failed to load reservations: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(res))
	}
	if !res[0].StartTime.Equal(monday(10, 0)) || !res[0].EndTime.Equal(monday(10, 30)) {
		t.Errorf("unexpected reservation window: %v - %v", res[0].StartTime, res[0].EndTime)
	}

	if n := e.countRows(t, &models.BookingHold{}, "tenant_id = ?", e.f.tenant.ID); n != 0 {
		t.Errorf("expected no holds after commit, got %d", n)
	}
}

func TestCreateAppointmentOverlapConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0))); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 30)))
	if !httperr.IsBusiness(err, domain.CodeBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
	}

	be, _ := httperr.AsBusiness(err)
	if be.Message != domain.ReasonOverlappingAppointment {
		t.Errorf("expected reason %q, got %q", domain.ReasonOverlappingAppointment, be.Message)
	}
}

func TestCreateAppointmentBackToBackAllowed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0))); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	// [10:00,11:00) then [11:00,12:00): shared boundary is not an overlap
	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(11, 0))); err != nil {
		t.Fatalf("back-to-back booking failed: %v", err)
	}
}

func TestCreateAppointmentCapacityExhausted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// staff1 takes the only tub for 10:00-10:30
	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0))); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// staff2 is free but the tub is not
	_, err := e.create.Execute(ctx, e.createInput(e.f.staff2.ID, monday(10, 0)))
	if !httperr.IsBusiness(err, domain.CodeResourceConflict) {
		t.Fatalf("expected RESOURCE_CONFLICT, got %v", err)
	}

	// shifting past the tub window works: needs are 30 minutes, not 60
	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff2.ID, monday(10, 30))); err != nil {
		t.Fatalf("expected success once tub windows no longer overlap, got %v", err)
	}
}

func TestCreateAppointmentOutsideWorkingHours(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(8, 0)))
	if !httperr.IsBusiness(err, domain.CodeBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
	}
	be, _ := httperr.AsBusiness(err)
	if be.Message != domain.ReasonOutsideWorkingHours {
		t.Errorf("expected reason %q, got %q", domain.ReasonOutsideWorkingHours, be.Message)
	}
}

func TestCreateAppointmentEndAtCloseAllowed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// 17:00-18:00 ends exactly at closing time
	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(17, 0))); err != nil {
		t.Fatalf("expected booking ending at close to pass, got %v", err)
	}
}

func TestCreateAppointmentDuringBreak(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// 11:45-12:45 crosses the 12:00-12:30 break
	_, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(11, 45)))
	if !httperr.IsBusiness(err, domain.CodeBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
	}
	be, _ := httperr.AsBusiness(err)
	if be.Message != domain.ReasonBreakOverlap {
		t.Errorf("expected reason %q, got %q", domain.ReasonBreakOverlap, be.Message)
	}
}

func TestCreateAppointmentStaffTimeOff(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	off := models.TimeOff{
		TenantID:  e.f.tenant.ID,
		StaffID:   e.f.staff1.ID,
		StartTime: monday(9, 0),
		EndTime:   monday(13, 0),
		Reason:    "dentist",
	}
	mustCreate(t, e.db, &off)

	_, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0)))
	if !httperr.IsBusiness(err, domain.CodeBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
	}
	be, _ := httperr.AsBusiness(err)
	if be.Message != domain.ReasonStaffTimeOff {
		t.Errorf("expected reason %q, got %q", domain.ReasonStaffTimeOff, be.Message)
	}
}

func TestCreateAppointmentNoScheduleForDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Tuesday has no staff schedule and no tenant-wide hours
	tuesday := monday(10, 0).Add(24 * time.Hour)
	_, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, tuesday))
	if !httperr.IsBusiness(err, domain.CodeBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
	}
	be, _ := httperr.AsBusiness(err)
	if be.Message != domain.ReasonNoSchedule {
		t.Errorf("expected reason %q, got %q", domain.ReasonNoSchedule, be.Message)
	}
}

func TestCreateAppointmentStaffNotQualified(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	other := models.Service{TenantID: e.f.tenant.ID, Name: "Nail Trim", Active: true}
	mustCreate(t, e.db, &other)

	// a non-empty allow-list restricts staff1 to the other service
	qual := models.StaffQualification{
		TenantID:  e.f.tenant.ID,
		StaffID:   e.f.staff1.ID,
		ServiceID: other.ID,
	}
	mustCreate(t, e.db, &qual)

	_, err := e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0)))
	if !httperr.IsBusiness(err, domain.CodeStaffNotQualified) {
		t.Fatalf("expected STAFF_NOT_QUALIFIED, got %v", err)
	}

	// staff2 has an empty allow-list and stays unrestricted
	if _, err := e.create.Execute(ctx, e.createInput(e.f.staff2.ID, monday(10, 0))); err != nil {
		t.Fatalf("expected unrestricted staff to book, got %v", err)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := e.createInput(e.f.staff1.ID, monday(10, 0))
	in.CustomerID = 0
	in.ServiceItemID = 0

	_, err := e.create.Execute(ctx, in)
	if !httperr.IsBusiness(err, domain.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}

	be, _ := httperr.AsBusiness(err)
	if _, ok := be.Fields["customer_id"]; !ok {
		t.Errorf("expected customer_id field error, got %v", be.Fields)
	}
	if _, ok := be.Fields["service_item_id"]; !ok {
		t.Errorf("expected service_item_id field error, got %v", be.Fields)
	}
}

func TestCreateAppointmentWrongServiceItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	other := models.Service{TenantID: e.f.tenant.ID, Name: "Nail Trim", Active: true}
	mustCreate(t, e.db, &other)

	in := e.createInput(e.f.staff1.ID, monday(10, 0))
	in.ServiceID = other.ID // item belongs to Full Groom, not Nail Trim

	_, err := e.create.Execute(ctx, in)
	if !httperr.IsBusiness(err, domain.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

// Only one of N concurrent requests for the same slot may win; the
// rest get a conflict and leave nothing behind.
func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	const workers = 4

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.create.Execute(ctx, e.createInput(e.f.staff1.ID, monday(10, 0)))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, domain.CodeBookingConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", won)
	}

	if n := e.countRows(t, &models.Appointment{}, "tenant_id = ?", e.f.tenant.ID); n != 1 {
		t.Errorf("expected 1 appointment, got %d", n)
	}
	if n := e.countRows(t, &models.BookingHold{}, "tenant_id = ?", e.f.tenant.ID); n != 0 {
		t.Errorf("expected no holds left, got %d", n)
	}
}
