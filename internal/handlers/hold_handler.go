package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/hold"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/httpresp"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// HoldHandler exposes the hold lifecycle to clients that want to pin
// a slot while the customer confirms. The booking flow itself takes
// holds internally; these endpoints are for multi-step checkout UIs.
type HoldHandler struct {
	db    *gorm.DB
	holds *hold.Manager
}

func NewHoldHandler(db *gorm.DB, holds *hold.Manager) *HoldHandler {
	return &HoldHandler{db: db, holds: holds}
}

// ======================================================
// CREATE
// ======================================================

type CreateHoldRequest struct {
	LocationID uint   `json:"location_id" binding:"required"`
	CustomerID uint   `json:"customer_id" binding:"required"`
	StaffID    uint   `json:"staff_id"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`

	Resources []HoldResourceRequest `json:"resources"`
}

type HoldResourceRequest struct {
	ResourceTypeID uint `json:"resource_type_id" binding:"required"`
	Quantity       int  `json:"quantity"`
}

type HoldResponse struct {
	ID        string `json:"id"`
	ExpiresAt string `json:"expires_at"`
}

func (h *HoldHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseDateTimeInTenant(tenant, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}
	end, err := parseDateTimeInTenant(tenant, req.Date, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end time.")
		return
	}
	if !end.After(start) {
		httperr.BadRequest(c, "invalid_date_or_time", "End must be after start.")
		return
	}

	needs := make([]domain.ResourceNeed, 0, len(req.Resources))
	for _, r := range req.Resources {
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		needs = append(needs, domain.ResourceNeed{
			ResourceTypeID: r.ResourceTypeID,
			Quantity:       qty,
			Start:          start,
			End:            end,
		})
	}

	created, err := h.holds.Create(c.Request.Context(), hold.Request{
		TenantID:   tenantID,
		LocationID: req.LocationID,
		CustomerID: req.CustomerID,
		CreatedBy:  "staff:" + strconv.FormatUint(uint64(userID), 10),
		StaffID:    req.StaffID,
		Start:      start,
		End:        end,
		Resources:  needs,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, HoldResponse{
		ID:        created.ID,
		ExpiresAt: created.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ======================================================
// RELEASE
// ======================================================

// Release is idempotent: releasing an unknown or already-expired hold
// still returns 204.
func (h *HoldHandler) Release(c *gin.Context) {
	holdID := c.Param("id")
	if holdID == "" {
		httperr.BadRequest(c, "invalid_id", "Invalid hold id.")
		return
	}

	h.holds.Release(c.Request.Context(), holdID)
	c.Status(204)
}

// ======================================================
// PRE-FLIGHT CHECK
// ======================================================

type HoldCheckResponse struct {
	Held bool `json:"held"`
}

func (h *HoldHandler) Check(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 64)
	if err != nil || staffID == 0 {
		httperr.BadRequest(c, "invalid_staff_id", "Invalid or missing staff_id.")
		return
	}

	start, err := parseDateTimeInTenant(tenant, c.Query("date"), c.Query("time"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}
	end, err := parseDateTimeInTenant(tenant, c.Query("date"), c.Query("end_time"))
	if err != nil || !end.After(start) {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end time.")
		return
	}

	held, err := h.holds.IsSlotHeld(c.Request.Context(), tenantID, uint(staffID), start, end)
	if err != nil {
		httperr.Internal(c, "hold_check_failed", "Failed to check slot.")
		return
	}

	httpresp.OK(c, HoldCheckResponse{Held: held})
}

// ======================================================
// HELPERS
// ======================================================

func (h *HoldHandler) loadTenant(c *gin.Context, tenantID uint) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return nil, false
	}
	return &tenant, true
}
