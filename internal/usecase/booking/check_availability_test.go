package booking

import (
	"context"
	"testing"
	"time"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/models"
)

func checkAvail(t *testing.T, e *env, q domain.AvailabilityQuery) domain.AvailabilityResult {
	t.Helper()
	res, err := NewCheckAvailability(e.repo).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	return res
}

func TestAvailabilityStaffLessAlwaysPasses(t *testing.T) {
	e := newEnv(t)

	res := checkAvail(t, e, domain.AvailabilityQuery{
		TenantID:   e.f.tenant.ID,
		StaffID:    nil,
		LocationID: e.f.location.ID,
		Start:      monday(3, 0), // deep outside working hours
		End:        monday(4, 0),
	})
	if !res.Available {
		t.Fatalf("expected staff-less query to pass, got reason %q", res.Reason)
	}
}

func TestAvailabilityTenantFallbackHours(t *testing.T) {
	e := newEnv(t)

	// staff3 has no personal schedule; tenant-wide Monday hours apply
	staff3 := models.Staff{
		TenantID: e.f.tenant.ID, Name: "Caio", Email: "caio@happypaws.test",
		PasswordHash: "x", Role: "groomer", Active: true,
	}
	mustCreate(t, e.db, &staff3)
	mustCreate(t, e.db, &models.TenantWorkHours{
		TenantID:  e.f.tenant.ID,
		Weekday:   1,
		StartTime: "10:00",
		EndTime:   "16:00",
	})

	inside := checkAvail(t, e, domain.AvailabilityQuery{
		TenantID:   e.f.tenant.ID,
		StaffID:    &staff3.ID,
		LocationID: e.f.location.ID,
		Start:      monday(10, 0),
		End:        monday(11, 0),
	})
	if !inside.Available {
		t.Fatalf("expected fallback hours to pass, got %q", inside.Reason)
	}

	outside := checkAvail(t, e, domain.AvailabilityQuery{
		TenantID:   e.f.tenant.ID,
		StaffID:    &staff3.ID,
		LocationID: e.f.location.ID,
		Start:      monday(9, 0),
		End:        monday(10, 0),
	})
	if outside.Available || outside.Reason != domain.ReasonOutsideWorkingHours {
		t.Fatalf("expected outside-hours verdict, got %+v", outside)
	}
}

func TestAvailabilityInactiveScheduleIsDayOff(t *testing.T) {
	e := newEnv(t)

	e.db.Model(&models.StaffSchedule{}).
		Where("staff_id = ? AND weekday = ?", e.f.staff1.ID, 1).
		Update("active", false)

	res := checkAvail(t, e, domain.AvailabilityQuery{
		TenantID:   e.f.tenant.ID,
		StaffID:    &e.f.staff1.ID,
		LocationID: e.f.location.ID,
		Start:      monday(10, 0),
		End:        monday(11, 0),
	})
	if res.Available || res.Reason != domain.ReasonNoSchedule {
		t.Fatalf("expected day-off verdict, got %+v", res)
	}
}

// The weekday must come from the tenant's local clock. 01:00 UTC on a
// Tuesday is still Monday evening in São Paulo.
func TestAvailabilityWeekdayCrossesTimezoneBoundary(t *testing.T) {
	gdb := newTestDB(t)

	tenant := models.Tenant{
		Name: "Patas Felizes", Slug: "patas-felizes",
		Timezone: "America/Sao_Paulo",
	}
	mustCreate(t, gdb, &tenant)
	location := models.Location{TenantID: tenant.ID, Name: "Centro"}
	mustCreate(t, gdb, &location)
	staff := models.Staff{
		TenantID: tenant.ID, Name: "Duda", Email: "duda@patas.test",
		PasswordHash: "x", Role: "groomer", Active: true,
	}
	mustCreate(t, gdb, &staff)

	// evening shift on Monday only
	mustCreate(t, gdb, &models.StaffSchedule{
		TenantID:  tenant.ID,
		StaffID:   staff.ID,
		Weekday:   1,
		StartTime: "18:00",
		EndTime:   "23:00",
		Active:    true,
	})

	repo := newRepo(gdb)

	// 2025-03-04 01:00Z = 2025-03-03 22:00 in São Paulo (UTC-3)
	start := time.Date(2025, 3, 4, 1, 0, 0, 0, time.UTC)
	res, err := NewCheckAvailability(repo).Execute(context.Background(), domain.AvailabilityQuery{
		TenantID:   tenant.ID,
		StaffID:    &staff.ID,
		LocationID: location.ID,
		Start:      start,
		End:        start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	if !res.Available {
		t.Fatalf("expected Monday-evening local window to pass, got %q", res.Reason)
	}

	// 24h later it is Tuesday evening locally: no schedule
	res, err = NewCheckAvailability(repo).Execute(context.Background(), domain.AvailabilityQuery{
		TenantID:   tenant.ID,
		StaffID:    &staff.ID,
		LocationID: location.ID,
		Start:      start.Add(24 * time.Hour),
		End:        start.Add(25 * time.Hour),
	})
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	if res.Available || res.Reason != domain.ReasonNoSchedule {
		t.Fatalf("expected no-schedule verdict on Tuesday, got %+v", res)
	}
}

func TestAvailabilityExcludesOwnAppointment(t *testing.T) {
	e := newEnv(t)

	ap := mustBook(t, e, e.f.staff1.ID, monday(10, 0))

	blocked := checkAvail(t, e, domain.AvailabilityQuery{
		TenantID:   e.f.tenant.ID,
		StaffID:    &e.f.staff1.ID,
		LocationID: e.f.location.ID,
		Start:      monday(10, 30),
		End:        monday(11, 30),
	})
	if blocked.Available {
		t.Fatal("expected overlap without exclusion")
	}

	excluded := checkAvail(t, e, domain.AvailabilityQuery{
		TenantID:             e.f.tenant.ID,
		StaffID:              &e.f.staff1.ID,
		LocationID:           e.f.location.ID,
		Start:                monday(10, 30),
		End:                  monday(11, 30),
		ExcludeAppointmentID: ap.ID,
	})
	if !excluded.Available {
		t.Fatalf("expected self-exclusion to pass, got %q", excluded.Reason)
	}
}
