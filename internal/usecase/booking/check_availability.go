package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/timezone"
)

// ======================================================
// AVAILABILITY CHECKER
// ======================================================

// CheckAvailability decides whether a staff member is bookable for a
// window: no overlapping appointment, no time off, inside working
// hours (personal schedule falling back to tenant-wide hours), outside
// break windows. Read-only, safe to call concurrently.
type CheckAvailability struct {
	repo domain.Repository
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	q domain.AvailabilityQuery,
) (domain.AvailabilityResult, error) {

	// Staff-less bookings are permitted; capacity accounting alone
	// gates them.
	if q.StaffID == nil || *q.StaffID == 0 {
		return domain.AvailabilityResult{Available: true}, nil
	}
	staffID := *q.StaffID

	// --------------------------------------------------
	// Overlapping appointment
	// --------------------------------------------------
	count, err := uc.repo.CountOverlappingAppointments(
		ctx, q.TenantID, staffID, q.Start, q.End, q.ExcludeAppointmentID,
	)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	if count > 0 {
		return unavailable(domain.ReasonOverlappingAppointment), nil
	}

	// --------------------------------------------------
	// Time off
	// --------------------------------------------------
	off, err := uc.repo.HasTimeOff(ctx, q.TenantID, staffID, q.Start, q.End)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	if off {
		return unavailable(domain.ReasonStaffTimeOff), nil
	}

	// --------------------------------------------------
	// Working hours (weekday resolved in the tenant's timezone)
	// --------------------------------------------------
	tenant, err := uc.repo.GetTenantByID(ctx, q.TenantID)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	loc := timezone.Location(tenant.Timezone)
	localStart := q.Start.In(loc)
	weekday := int(localStart.Weekday())

	var (
		openHM  string
		closeHM string
		breaks  []models.ScheduleBreak
	)

	sched, err := uc.repo.GetStaffSchedule(
		ctx, q.TenantID, staffID, q.LocationID, weekday,
	)
	switch {
	case err == nil && !sched.Active:
		// explicit day off
		return unavailable(domain.ReasonNoSchedule), nil
	case err == nil:
		openHM, closeHM, breaks = sched.StartTime, sched.EndTime, sched.Breaks
	case errors.Is(err, gorm.ErrRecordNotFound):
		wh, werr := uc.repo.GetTenantWorkHours(ctx, q.TenantID, weekday)
		if errors.Is(werr, gorm.ErrRecordNotFound) {
			return unavailable(domain.ReasonNoSchedule), nil
		}
		if werr != nil {
			return domain.AvailabilityResult{}, werr
		}
		openHM, closeHM = wh.StartTime, wh.EndTime
	default:
		return domain.AvailabilityResult{}, err
	}

	openMin, err := timezone.ParseClock(openHM)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	closeMin, err := timezone.ParseClock(closeHM)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	startMin := timezone.MinutesOfDay(localStart)
	endMin := startMin + int(q.End.Sub(q.Start).Minutes())

	if startMin < openMin || endMin > closeMin {
		return unavailable(domain.ReasonOutsideWorkingHours), nil
	}

	// --------------------------------------------------
	// Breaks
	// --------------------------------------------------
	for _, b := range breaks {
		bStart, err := timezone.ParseClock(b.StartTime)
		if err != nil {
			return domain.AvailabilityResult{}, err
		}
		bEnd, err := timezone.ParseClock(b.EndTime)
		if err != nil {
			return domain.AvailabilityResult{}, err
		}
		if startMin < bEnd && endMin > bStart {
			return unavailable(domain.ReasonBreakOverlap), nil
		}
	}

	return domain.AvailabilityResult{Available: true}, nil
}

func unavailable(reason string) domain.AvailabilityResult {
	return domain.AvailabilityResult{Available: false, Reason: reason}
}
