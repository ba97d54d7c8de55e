package booking

import (
	"context"
	"testing"
	"time"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
)

func TestGetAvailabilitySlots(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	mustBook(t, e, e.f.staff1.ID, monday(10, 0))

	slots, err := NewGetAvailability(e.repo).Execute(ctx, GetAvailabilityInput{
		TenantID:      e.f.tenant.ID,
		LocationID:    e.f.location.ID,
		StaffID:       e.f.staff1.ID,
		ServiceItemID: e.f.item.ID,
		Date:          monday(0, 0),
	})
	if err != nil {
		t.Fatalf("slot listing failed: %v", err)
	}

	// 09:00-18:00 in 60-minute steps, minus the 10:00 booking and the
	// slot crossing the 12:00-12:30 break
	want := []domain.TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "11:00", End: "12:00"},
		{Start: "13:00", End: "14:00"},
		{Start: "14:00", End: "15:00"},
		{Start: "15:00", End: "16:00"},
		{Start: "16:00", End: "17:00"},
		{Start: "17:00", End: "18:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(slots), slots)
	}
	for i, w := range want {
		if slots[i] != w {
			t.Errorf("slot %d: expected %v, got %v", i, w, slots[i])
		}
	}
}

func TestGetAvailabilityNoScheduleDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	slots, err := NewGetAvailability(e.repo).Execute(ctx, GetAvailabilityInput{
		TenantID:      e.f.tenant.ID,
		LocationID:    e.f.location.ID,
		StaffID:       e.f.staff1.ID,
		ServiceItemID: e.f.item.ID,
		Date:          monday(0, 0).Add(24 * time.Hour), // Tuesday
	})
	if err != nil {
		t.Fatalf("slot listing failed: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on an unscheduled day, got %v", slots)
	}
}

func TestGetAvailabilityUnknownServiceItem(t *testing.T) {
	e := newEnv(t)

	_, err := NewGetAvailability(e.repo).Execute(context.Background(), GetAvailabilityInput{
		TenantID:      e.f.tenant.ID,
		LocationID:    e.f.location.ID,
		StaffID:       e.f.staff1.ID,
		ServiceItemID: 999,
		Date:          monday(0, 0),
	})
	if !httperr.IsBusiness(err, "service_item_not_found") {
		t.Fatalf("expected service_item_not_found, got %v", err)
	}
}
