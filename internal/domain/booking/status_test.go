package booking

import (
	"testing"
	"time"

	"github.com/groomly/grooming-scheduler/internal/models"
)

func TestBlocks(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusScheduled, true},
		{StatusCompleted, true},
		{StatusCanceled, false},
		{StatusNoShow, false},
	}
	for _, c := range cases {
		if got := Blocks(c.status); got != c.want {
			t.Errorf("Blocks(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestTransitionsOnlyFromScheduled(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCanceled, StatusNoShow} {
		if err := CanCancel(s); err == nil {
			t.Errorf("CanCancel(%s) should fail", s)
		}
		if err := CanComplete(s); err == nil {
			t.Errorf("CanComplete(%s) should fail", s)
		}
		if err := CanMarkNoShow(s); err == nil {
			t.Errorf("CanMarkNoShow(%s) should fail", s)
		}
	}

	if err := CanCancel(StatusScheduled); err != nil {
		t.Errorf("CanCancel(scheduled) failed: %v", err)
	}
	if err := CanComplete(StatusScheduled); err != nil {
		t.Errorf("CanComplete(scheduled) failed: %v", err)
	}
	if err := CanMarkNoShow(StatusScheduled); err != nil {
		t.Errorf("CanMarkNoShow(scheduled) failed: %v", err)
	}
}

func TestDomainActions(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusScheduled)}
	if err := Cancel(ap, now); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if ap.Status != string(StatusCanceled) || ap.CancelledAt == nil {
		t.Errorf("cancel did not mutate appointment: %+v", ap)
	}

	ap = &models.Appointment{Status: string(StatusScheduled)}
	if err := Complete(ap, now); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ap.Status != string(StatusCompleted) || ap.CompletedAt == nil {
		t.Errorf("complete did not mutate appointment: %+v", ap)
	}

	ap = &models.Appointment{Status: string(StatusCompleted)}
	if err := Cancel(ap, now); err == nil {
		t.Error("expected cancel of completed appointment to fail")
	}
}
