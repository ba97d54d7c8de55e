package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/httpresp"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

// ======================================================
// WEEKLY SCHEDULE
// ======================================================

func (h *ScheduleHandler) ListForStaff(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, ok := h.paramID(c, "staffId")
	if !ok {
		return
	}

	var schedules []models.StaffSchedule
	err := h.db.
		Preload("Breaks").
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		Order("weekday ASC").
		Find(&schedules).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list schedules.")
		return
	}

	httpresp.List(c, schedules)
}

type ScheduleDayRequest struct {
	Weekday    int    `json:"weekday"`
	LocationID uint   `json:"location_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Active     bool   `json:"active"`

	Breaks []ScheduleBreakRequest `json:"breaks"`
}

type ScheduleBreakRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type UpsertScheduleRequest struct {
	Days []ScheduleDayRequest `json:"days" binding:"required"`
}

// Upsert replaces the staff member's weekly template. Each posted day
// overwrites the row for that (weekday, location) pair; breaks are
// rewritten wholesale.
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, ok := h.paramID(c, "staffId")
	if !ok {
		return
	}

	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	for _, day := range req.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			httperr.BadRequest(c, "invalid_weekday", "Weekday must be between 0 and 6.")
			return
		}
		if !validClockWindow(day.StartTime, day.EndTime) {
			httperr.BadRequest(c, "invalid_window", "Times must be HH:MM with start before end.")
			return
		}
		for _, br := range day.Breaks {
			if !validClockWindow(br.StartTime, br.EndTime) {
				httperr.BadRequest(c, "invalid_break", "Break times must be HH:MM with start before end.")
				return
			}
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, day := range req.Days {
			var sched models.StaffSchedule
			err := tx.
				Where(
					"tenant_id = ? AND staff_id = ? AND weekday = ? AND location_id = ?",
					tenantID, staffID, day.Weekday, day.LocationID,
				).
				First(&sched).Error
			if err == gorm.ErrRecordNotFound {
				sched = models.StaffSchedule{
					TenantID:   tenantID,
					StaffID:    staffID,
					LocationID: day.LocationID,
					Weekday:    day.Weekday,
				}
			} else if err != nil {
				return err
			}

			sched.StartTime = day.StartTime
			sched.EndTime = day.EndTime
			sched.Active = day.Active
			if err := tx.Save(&sched).Error; err != nil {
				return err
			}

			if err := tx.Where("schedule_id = ?", sched.ID).Delete(&models.ScheduleBreak{}).Error; err != nil {
				return err
			}
			for _, br := range day.Breaks {
				b := models.ScheduleBreak{
					ScheduleID: sched.ID,
					StartTime:  br.StartTime,
					EndTime:    br.EndTime,
				}
				if err := tx.Create(&b).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "save_failed", "Failed to save schedule.")
		return
	}

	h.ListForStaff(c)
}

// ======================================================
// TIME OFF
// ======================================================

type CreateTimeOffRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

func (h *ScheduleHandler) CreateTimeOff(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, ok := h.paramID(c, "staffId")
	if !ok {
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return
	}

	var req CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseDateTimeInTenant(&tenant, req.StartDate, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid start date or time.")
		return
	}
	end, err := parseDateTimeInTenant(&tenant, req.EndDate, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end date or time.")
		return
	}
	if !end.After(start) {
		httperr.BadRequest(c, "invalid_window", "End must be after start.")
		return
	}

	timeOff := models.TimeOff{
		TenantID:  tenantID,
		StaffID:   staffID,
		StartTime: start,
		EndTime:   end,
		Reason:    req.Reason,
	}
	if err := h.db.Create(&timeOff).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to save time off.")
		return
	}

	httpresp.Created(c, timeOff)
}

func (h *ScheduleHandler) ListTimeOff(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, ok := h.paramID(c, "staffId")
	if !ok {
		return
	}

	var entries []models.TimeOff
	err := h.db.
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		Order("start_time ASC").
		Find(&entries).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list time off.")
		return
	}

	httpresp.List(c, entries)
}

func (h *ScheduleHandler) DeleteTimeOff(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	result := h.db.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.TimeOff{})
	if result.Error != nil {
		httperr.Internal(c, "delete_failed", "Failed to delete time off.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "time_off_not_found", "Time off entry not found.")
		return
	}

	c.Status(204)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ScheduleHandler) paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

func validClockWindow(start, end string) bool {
	s, err := timezone.ParseClock(start)
	if err != nil {
		return false
	}
	e, err := timezone.ParseClock(end)
	if err != nil {
		return false
	}
	return s < e
}
