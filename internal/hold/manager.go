package hold

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/models"
)

const DefaultTTL = 30 * time.Second

type Request struct {
	TenantID   uint
	LocationID uint
	CustomerID uint
	CreatedBy  string

	// StaffID 0 means a staff-less booking; only resource capacity
	// gates it.
	StaffID uint
	Start   time.Time
	End     time.Time

	Resources []domain.ResourceNeed
}

// Manager owns the hold lifecycle: none → held → committed/released/
// expired. Creation failure is a normal branch (another caller is
// mid-commit on the same slot), never logged as an error.
type Manager struct {
	repo   domain.Repository
	locker SlotLocker
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(repo domain.Repository, locker SlotLocker, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		repo:   repo,
		locker: locker,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) lockKeys(req Request) []string {
	keys := make([]string, 0, 1+len(req.Resources))
	if req.StaffID != 0 {
		keys = append(keys, fmt.Sprintf("hold:t%d:s%d", req.TenantID, req.StaffID))
	}
	for _, need := range req.Resources {
		keys = append(keys, fmt.Sprintf("hold:t%d:r%d", req.TenantID, need.ResourceTypeID))
	}
	return keys
}

// Create acquires a hold for the requested slot or fails with
// BOOKING_HOLD_EXISTS carrying the blocking hold's id and expiry.
// The overlap check and the insert run under the slot lock and one
// store transaction so the check-then-insert window cannot race.
func (m *Manager) Create(ctx context.Context, req Request) (*models.BookingHold, error) {
	release, err := m.locker.Acquire(ctx, m.lockKeys(req))
	if err != nil {
		if errors.Is(err, ErrSlotBusy) {
			return nil, httperr.ErrBusinessMsg(
				domain.CodeBookingHoldExists,
				domain.ReasonSlotHeld,
			)
		}
		return nil, err
	}
	defer release()

	now := m.now()
	h := &models.BookingHold{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		LocationID: req.LocationID,
		CustomerID: req.CustomerID,
		CreatedBy:  req.CreatedBy,
		ExpiresAt:  now.Add(m.ttl),
	}

	if req.StaffID != 0 {
		staffID := req.StaffID
		h.Items = append(h.Items, models.BookingHoldItem{
			Kind:      models.HoldItemStaff,
			StaffID:   &staffID,
			Quantity:  1,
			StartTime: req.Start,
			EndTime:   req.End,
		})
	}
	for _, need := range req.Resources {
		rtID := need.ResourceTypeID
		h.Items = append(h.Items, models.BookingHoldItem{
			Kind:           models.HoldItemResource,
			ResourceTypeID: &rtID,
			Quantity:       need.Quantity,
			StartTime:      need.Start,
			EndTime:        need.End,
		})
	}

	err = m.repo.Transaction(ctx, func(tx domain.Repository) error {
		if req.StaffID != 0 {
			blocking, err := tx.FindBlockingHold(
				ctx, req.TenantID, req.StaffID, req.Start, req.End, now,
			)
			if err != nil {
				return err
			}
			if blocking != nil {
				return httperr.BusinessError{
					Code:    domain.CodeBookingHoldExists,
					Message: domain.ReasonSlotHeld,
					Fields: map[string]string{
						"hold_id":    blocking.ID,
						"expires_at": blocking.ExpiresAt.UTC().Format(time.RFC3339),
					},
				}
			}
		}
		return tx.CreateHold(ctx, h)
	})
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Release deletes a hold by id. It is idempotent and never fails
// observably; it runs on both the success and failure paths of the
// orchestrator.
func (m *Manager) Release(ctx context.Context, holdID string) {
	if holdID == "" {
		return
	}
	if err := m.repo.DeleteHold(ctx, holdID); err != nil {
		log.Println("hold: release failed (will be swept):", err)
	}
}

// IsSlotHeld is a read-only pre-flight check; authoritative checking
// still happens inside Create.
func (m *Manager) IsSlotHeld(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	blocking, err := m.repo.FindBlockingHold(
		ctx, tenantID, staffID, start, end, m.now(),
	)
	if err != nil {
		return false, err
	}
	return blocking != nil, nil
}

// CleanupExpired garbage-collects holds past their expiry. Holds are
// released inline on every booking path; this sweep is the safety net
// for crashed processes.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.repo.DeleteExpiredHolds(ctx, m.now())
}
