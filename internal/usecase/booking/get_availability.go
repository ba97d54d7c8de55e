package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/timezone"
)

type GetAvailabilityInput struct {
	TenantID      uint
	LocationID    uint
	StaffID       uint
	ServiceItemID uint

	// Date is any instant inside the requested local day.
	Date time.Time
}

// GetAvailability lists the free slots of a staff member for one day
// and one service variant. It is pre-flight UX only: the orchestrator
// re-checks everything at booking time.
type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]domain.TimeSlot, error) {

	item, err := uc.repo.GetServiceItem(ctx, in.TenantID, in.ServiceItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("service_item_not_found")
	}
	if err != nil {
		return nil, err
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)
	localDay := in.Date.In(loc)
	weekday := int(localDay.Weekday())

	var (
		openHM  string
		closeHM string
		brks    []models.ScheduleBreak
	)

	sched, err := uc.repo.GetStaffSchedule(
		ctx, in.TenantID, in.StaffID, in.LocationID, weekday,
	)
	switch {
	case err == nil && !sched.Active:
		return []domain.TimeSlot{}, nil
	case err == nil:
		openHM, closeHM, brks = sched.StartTime, sched.EndTime, sched.Breaks
	case errors.Is(err, gorm.ErrRecordNotFound):
		wh, werr := uc.repo.GetTenantWorkHours(ctx, in.TenantID, weekday)
		if errors.Is(werr, gorm.ErrRecordNotFound) {
			return []domain.TimeSlot{}, nil
		}
		if werr != nil {
			return nil, werr
		}
		openHM, closeHM = wh.StartTime, wh.EndTime
	default:
		return nil, err
	}

	parseHM := func(hm string) (time.Time, error) {
		min, err := timezone.ParseClock(hm)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(
			localDay.Year(), localDay.Month(), localDay.Day(),
			min/60, min%60, 0, 0,
			loc,
		), nil
	}

	dayStart, err := parseHM(openHM)
	if err != nil {
		return nil, err
	}
	dayEnd, err := parseHM(closeHM)
	if err != nil {
		return nil, err
	}

	type window struct{ start, end time.Time }
	busy := make([]window, 0, len(brks))
	for _, b := range brks {
		bs, err := parseHM(b.StartTime)
		if err != nil {
			return nil, err
		}
		be, err := parseHM(b.EndTime)
		if err != nil {
			return nil, err
		}
		busy = append(busy, window{bs, be})
	}

	appointments, err := uc.repo.ListAppointmentsForDay(
		ctx, in.TenantID, in.StaffID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, err
	}
	for _, ap := range appointments {
		busy = append(busy, window{ap.StartTime, ap.EndTime})
	}

	slotDuration := time.Duration(item.DurationMin) * time.Minute
	if slotDuration <= 0 {
		return []domain.TimeSlot{}, nil
	}

	var slots []domain.TimeSlot
	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {
		slotStart := cur
		slotEnd := cur.Add(slotDuration)

		conflict := false
		for _, w := range busy {
			// half-open overlap
			if slotStart.Before(w.end) && w.start.Before(slotEnd) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		slots = append(slots, domain.TimeSlot{
			Start: slotStart.In(loc).Format("15:04"),
			End:   slotEnd.In(loc).Format("15:04"),
		})
	}

	return slots, nil
}
