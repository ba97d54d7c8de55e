package booking

import (
	"context"
	"time"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
)

// ======================================================
// CAPACITY ACCOUNTANT
// ======================================================

// CheckResourceCapacity computes remaining concurrent capacity of a
// resource type for a window: total active capacity minus confirmed
// reservations minus live hold units. The result is a fresh read and
// must be re-validated inside the commit transaction (time passes
// between check and commit).
type CheckResourceCapacity struct {
	repo domain.Repository
	now  func() time.Time
}

func NewCheckResourceCapacity(repo domain.Repository) *CheckResourceCapacity {
	return &CheckResourceCapacity{repo: repo, now: time.Now}
}

func (uc *CheckResourceCapacity) Execute(
	ctx context.Context,
	q domain.CapacityQuery,
) (domain.CapacityResult, error) {

	total, err := uc.repo.SumActiveCapacity(ctx, q.TenantID, q.ResourceTypeID)
	if err != nil {
		return domain.CapacityResult{}, err
	}
	if total <= 0 {
		return domain.CapacityResult{
			Available: false,
			Reason:    domain.ReasonNoResources,
		}, nil
	}

	reserved, err := uc.repo.CountReservations(
		ctx, q.TenantID, q.ResourceTypeID, q.Start, q.End,
	)
	if err != nil {
		return domain.CapacityResult{}, err
	}

	held, err := uc.repo.CountHeldUnits(
		ctx, q.TenantID, q.ResourceTypeID, q.Start, q.End, uc.now(), q.ExcludeHoldID,
	)
	if err != nil {
		return domain.CapacityResult{}, err
	}

	if total-(reserved+held) < int64(q.Quantity) {
		return domain.CapacityResult{
			Available: false,
			Reason:    domain.ReasonCapacityExhausted,
		}, nil
	}

	return domain.CapacityResult{Available: true}, nil
}
