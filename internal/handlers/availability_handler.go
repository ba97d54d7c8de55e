package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/httpresp"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/models"
	ucBooking "github.com/groomly/grooming-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	db *gorm.DB

	availabilityUC *ucBooking.CheckAvailability
	capacityUC     *ucBooking.CheckResourceCapacity
	slotsUC        *ucBooking.GetAvailability
}

func NewAvailabilityHandler(
	db *gorm.DB,
	availabilityUC *ucBooking.CheckAvailability,
	capacityUC *ucBooking.CheckResourceCapacity,
	slotsUC *ucBooking.GetAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:             db,
		availabilityUC: availabilityUC,
		capacityUC:     capacityUC,
		slotsUC:        slotsUC,
	}
}

// ======================================================
// CHECK
// ======================================================

type CheckAvailabilityRequest struct {
	StaffID    *uint  `json:"staff_id"`
	LocationID uint   `json:"location_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`

	// ExcludeAppointmentID lets a reschedule preview ignore the
	// appointment being moved.
	ExcludeAppointmentID uint `json:"exclude_appointment_id"`
}

type CheckAvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Check answers whether a staff member is free for one window. It is
// advisory: the booking flow re-runs the same checks under a hold.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	var req CheckAvailabilityRequest
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

	result, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityQuery{
		TenantID:             tenantID,
		StaffID:              req.StaffID,
		LocationID:           req.LocationID,
		Start:                start,
		End:                  end,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, CheckAvailabilityResponse{
		Available: result.Available,
		Reason:    result.Reason,
	})
}

// ======================================================
// FREE SLOTS
// ======================================================

// Slots lists the free start times of one staff member for one day
// and one service variant.
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	staffID, ok := h.queryID(c, "staff_id")
	if !ok {
		return
	}
	locationID, ok := h.queryID(c, "location_id")
	if !ok {
		return
	}
	serviceItemID, ok := h.queryID(c, "service_item_id")
	if !ok {
		return
	}

	day, err := parseDateInTenant(tenant, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	slots, err := h.slotsUC.Execute(c.Request.Context(), ucBooking.GetAvailabilityInput{
		TenantID:      tenantID,
		LocationID:    locationID,
		StaffID:       staffID,
		ServiceItemID: serviceItemID,
		Date:          day,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// HELPERS
// ======================================================

func (h *AvailabilityHandler) loadTenant(c *gin.Context, tenantID uint) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return nil, false
	}
	return &tenant, true
}

func (h *AvailabilityHandler) queryID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid or missing "+name+".")
		return 0, false
	}
	return uint(v), true
}
