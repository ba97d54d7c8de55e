package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/httperr"
	"github.com/groomly/grooming-scheduler/internal/httpresp"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// ======================================================
// SERVICES
// ======================================================

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *ServiceHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	service := models.Service{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Active:      true,
	}
	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to create service.")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var services []models.Service
	err := h.db.
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list services.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// SERVICE ITEMS
// ======================================================

type CreateServiceItemRequest struct {
	Variant     string  `json:"variant" binding:"required"`
	DurationMin int     `json:"duration_min" binding:"required"`
	Price       float64 `json:"price"`

	RequiredResources []ServiceItemResourceRequest `json:"required_resources"`
}

type ServiceItemResourceRequest struct {
	ResourceTypeID uint `json:"resource_type_id" binding:"required"`
	DurationMin    int  `json:"duration_min"`
	Quantity       int  `json:"quantity"`
}

func (h *ServiceHandler) CreateItem(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	serviceID, ok := h.paramID(c, "serviceId")
	if !ok {
		return
	}

	var service models.Service
	err := h.db.
		Where("tenant_id = ? AND id = ?", tenantID, serviceID).
		First(&service).Error
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "save_failed", "Failed to create service item.")
		return
	}

	var req CreateServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if req.DurationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
		return
	}

	item := models.ServiceItem{
		TenantID:    tenantID,
		ServiceID:   serviceID,
		Variant:     req.Variant,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}
	for _, r := range req.RequiredResources {
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		dur := r.DurationMin
		if dur <= 0 || dur > req.DurationMin {
			dur = req.DurationMin
		}
		item.RequiredResources = append(item.RequiredResources, models.ServiceItemResource{
			ResourceTypeID: r.ResourceTypeID,
			DurationMin:    dur,
			Quantity:       qty,
		})
	}

	if err := h.db.Create(&item).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to create service item.")
		return
	}

	httpresp.Created(c, item)
}

func (h *ServiceHandler) ListItems(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	serviceID, ok := h.paramID(c, "serviceId")
	if !ok {
		return
	}

	var items []models.ServiceItem
	err := h.db.
		Preload("RequiredResources").
		Where("tenant_id = ? AND service_id = ? AND active = ?", tenantID, serviceID, true).
		Order("variant ASC").
		Find(&items).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list service items.")
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// STAFF QUALIFICATIONS
// ======================================================

type SetQualificationsRequest struct {
	ServiceIDs []uint `json:"service_ids"`
}

// SetQualifications replaces a staff member's service allow-list.
// Posting an empty list clears it, which makes the staff member
// qualified for everything.
func (h *ServiceHandler) SetQualifications(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, ok := h.paramID(c, "staffId")
	if !ok {
		return
	}

	var req SetQualificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
			Delete(&models.StaffQualification{}).Error
		if err != nil {
			return err
		}
		for _, serviceID := range req.ServiceIDs {
			q := models.StaffQualification{
				TenantID:  tenantID,
				StaffID:   staffID,
				ServiceID: serviceID,
			}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "save_failed", "Failed to save qualifications.")
		return
	}

	var quals []models.StaffQualification
	err = h.db.
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		Find(&quals).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list qualifications.")
		return
	}

	httpresp.List(c, quals)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ServiceHandler) paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}
