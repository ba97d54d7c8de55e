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

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// ======================================================
// CUSTOMERS
// ======================================================

type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	customer := models.Customer{
		TenantID: tenantID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to create customer.")
		return
	}

	httpresp.Created(c, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	q := h.db.Where("tenant_id = ?", tenantID)
	if search := c.Query("search"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var customers []models.Customer
	if err := q.Order("name ASC").Find(&customers).Error; err != nil {
		httperr.Internal(c, "list_failed", "Failed to list customers.")
		return
	}

	httpresp.List(c, customers)
}

// ======================================================
// PETS
// ======================================================

type CreatePetRequest struct {
	Name    string `json:"name" binding:"required"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Notes   string `json:"notes"`
}

func (h *CustomerHandler) CreatePet(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	customerID, err := strconv.ParseUint(c.Param("customerId"), 10, 64)
	if err != nil || customerID == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid customer id.")
		return
	}

	var customer models.Customer
	err = h.db.
		Where("tenant_id = ? AND id = ?", tenantID, customerID).
		First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "customer_not_found", "Customer not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "save_failed", "Failed to create pet.")
		return
	}

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	pet := models.Pet{
		TenantID:   tenantID,
		CustomerID: customer.ID,
		Name:       req.Name,
		Species:    req.Species,
		Breed:      req.Breed,
		Notes:      req.Notes,
	}
	if err := h.db.Create(&pet).Error; err != nil {
		httperr.Internal(c, "save_failed", "Failed to create pet.")
		return
	}

	httpresp.Created(c, pet)
}

func (h *CustomerHandler) ListPets(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	customerID, err := strconv.ParseUint(c.Param("customerId"), 10, 64)
	if err != nil || customerID == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid customer id.")
		return
	}

	var pets []models.Pet
	err = h.db.
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("name ASC").
		Find(&pets).Error
	if err != nil {
		httperr.Internal(c, "list_failed", "Failed to list pets.")
		return
	}

	httpresp.List(c, pets)
}
