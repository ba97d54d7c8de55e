package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/httpresp"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/models"
	ucBooking "github.com/groomly/grooming-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC   *ucBooking.CreateAppointment
	updateUC   *ucBooking.UpdateAppointment
	cancelUC   *ucBooking.CancelAppointment
	completeUC *ucBooking.CompleteAppointment
	noShowUC   *ucBooking.MarkNoShow
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucBooking.CreateAppointment,
	updateUC *ucBooking.UpdateAppointment,
	cancelUC *ucBooking.CancelAppointment,
	completeUC *ucBooking.CompleteAppointment,
	noShowUC *ucBooking.MarkNoShow,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		createUC:   createUC,
		updateUC:   updateUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		noShowUC:   noShowUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	LocationID    uint   `json:"location_id" binding:"required"`
	CustomerID    uint   `json:"customer_id" binding:"required"`
	StaffID       uint   `json:"staff_id" binding:"required"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	ServiceItemID uint   `json:"service_item_id" binding:"required"`
	PetID         *uint  `json:"pet_id"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	StaffID       *uint   `json:"staff_id"`
	ServiceID     *uint   `json:"service_id"`
	ServiceItemID *uint   `json:"service_item_id"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	Notes         *string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseDateTimeInTenant(tenant, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		TenantID:      tenantID,
		LocationID:    req.LocationID,
		CustomerID:    req.CustomerID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		ServiceItemID: req.ServiceItemID,
		PetID:         req.PetID,
		Start:         start,
		Notes:         req.Notes,
		CreatedBy:     "staff:" + strconv.FormatUint(uint64(userID), 10),
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	appointmentID, ok := h.paramID(c)
	if !ok {
		return
	}

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := ucBooking.UpdateAppointmentInput{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		ServiceItemID: req.ServiceItemID,
		Notes:         req.Notes,
		UpdatedBy:     "staff:" + strconv.FormatUint(uint64(userID), 10),
	}

	if req.Date != nil || req.Time != nil {
		if req.Date == nil || req.Time == nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Date and time must be patched together.")
			return
		}
		start, err := parseDateTimeInTenant(tenant, *req.Date, *req.Time)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}
		in.Start = &start
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, func(tenantID, userID, appointmentID uint) (*models.Appointment, error) {
		return h.cancelUC.Execute(c.Request.Context(), tenantID, userID, appointmentID)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, func(tenantID, userID, appointmentID uint) (*models.Appointment, error) {
		return h.completeUC.Execute(c.Request.Context(), tenantID, userID, appointmentID)
	})
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.transition(c, func(tenantID, userID, appointmentID uint) (*models.Appointment, error) {
		return h.noShowUC.Execute(c.Request.Context(), tenantID, userID, appointmentID)
	})
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	run func(tenantID, userID, appointmentID uint) (*models.Appointment, error),
) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	appointmentID, ok := h.paramID(c)
	if !ok {
		return
	}

	ap, err := run(tenantID, userID, appointmentID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	tenant, ok := h.loadTenant(c, tenantID)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter 'date' is required.")
		return
	}

	dayStart, err := parseDateInTenant(tenant, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	q := h.db.
		Preload("Customer").
		Preload("ServiceItem").
		Where(
			"tenant_id = ? AND start_time >= ? AND start_time < ?",
			tenantID, dayStart, dayEnd,
		)

	if staffStr := c.Query("staff_id"); staffStr != "" {
		staffID, err := strconv.ParseUint(staffStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff_id", "Invalid staff id.")
			return
		}
		q = q.Where("staff_id = ?", staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		httperr.Internal(c, "list_failed", "Failed to list appointments.")
		return
	}

	httpresp.List(c, apps)
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) loadTenant(c *gin.Context, tenantID uint) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return nil, false
	}
	return &tenant, true
}

func (h *AppointmentHandler) paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}
