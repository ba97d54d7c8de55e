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

type ResourceHandler struct {
	db *gorm.DB
}

func NewResourceHandler(db *gorm.DB) *ResourceHandler {
	return &ResourceHandler{db: db}
}

// ======================================================
// RESOURCE TYPES
// ======================================================

type CreateResourceTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *ResourceHandler) CreateType(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateResourceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	rt := models.ResourceType{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.db.Create(&rt).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to create resource type.")
		return
	}

	httpresp.Created(c, rt)
}

func (h *ResourceHandler) ListTypes(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var types []models.ResourceType
	err := h.db.
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&types).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list resource types.")
		return
	}

	httpresp.List(c, types)
}

// ======================================================
// RESOURCES
// ======================================================

type CreateResourceRequest struct {
	ResourceTypeID uint   `json:"resource_type_id" binding:"required"`
	LocationID     uint   `json:"location_id"`
	Name           string `json:"name" binding:"required"`
	Capacity       int    `json:"capacity"`
}

func (h *ResourceHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var rt models.ResourceType
	err := h.db.
		Where("tenant_id = ? AND id = ?", tenantID, req.ResourceTypeID).
		First(&rt).Error
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "resource_type_not_found", "Resource type not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "save_failed", "Failed to create resource.")
		return
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	resource := models.Resource{
		TenantID:       tenantID,
		LocationID:     req.LocationID,
		ResourceTypeID: req.ResourceTypeID,
		Name:           req.Name,
		Active:         true,
		Capacity:       capacity,
	}
	if err := h.db.Create(&resource).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to create resource.")
		return
	}

	httpresp.Created(c, resource)
}

func (h *ResourceHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	q := h.db.Where("tenant_id = ?", tenantID)
	if typeStr := c.Query("resource_type_id"); typeStr != "" {
		typeID, err := strconv.ParseUint(typeStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_resource_type_id", "Invalid resource type id.")
			return
		}
		q = q.Where("resource_type_id = ?", typeID)
	}

	var resources []models.Resource
	if err := q.Order("name ASC").Find(&resources).Error; err != nil {
		httperr.Internal(c, "list_failed", "Failed to list resources.")
		return
	}

	httpresp.List(c, resources)
}

type UpdateResourceRequest struct {
	Name     *string `json:"name"`
	Active   *bool   `json:"active"`
	Capacity *int    `json:"capacity"`
}

// Update patches a resource. Deactivating a unit removes its capacity
// from future availability without touching existing reservations.
func (h *ResourceHandler) Update(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid resource id.")
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var resource models.Resource
	err = h.db.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&resource).Error
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "resource_not_found", "Resource not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "save_failed", "Failed to update resource.")
		return
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Active != nil {
		resource.Active = *req.Active
	}
	if req.Capacity != nil && *req.Capacity > 0 {
		resource.Capacity = *req.Capacity
	}

	if err := h.db.Save(&resource).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to update resource.")
		return
	}

	httpresp.OK(c, resource)
}
