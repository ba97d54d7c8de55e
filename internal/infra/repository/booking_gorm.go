package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/groomly/grooming-scheduler/internal/domain/booking"
	"github.com/groomly/grooming-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Tenant / catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *BookingGormRepository) GetStaff(
	ctx context.Context,
	tenantID uint,
	staffID uint,
) (*models.Staff, error) {

	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", staffID, tenantID).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *BookingGormRepository) ListQualifiedServiceIDs(
	ctx context.Context,
	staffID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.StaffQualification{}).
		Where("staff_id = ?", staffID).
		Pluck("service_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *BookingGormRepository) GetServiceItem(
	ctx context.Context,
	tenantID uint,
	serviceItemID uint,
) (*models.ServiceItem, error) {

	var item models.ServiceItem
	if err := r.db.WithContext(ctx).
		Preload("RequiredResources").
		Where("id = ? AND tenant_id = ?", serviceItemID, tenantID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *BookingGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *BookingGormRepository) CountOverlappingAppointments(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"tenant_id = ? AND staff_id = ? AND status NOT IN ? AND start_time < ? AND end_time > ?",
			tenantID,
			staffID,
			[]string{string(domain.StatusCanceled), string(domain.StatusNoShow)},
			end,
			start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND staff_id = ? AND status NOT IN ? AND start_time >= ? AND start_time < ?",
			tenantID,
			staffID,
			[]string{string(domain.StatusCanceled), string(domain.StatusNoShow)},
			dayStart,
			dayEnd,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Schedules / time off
// --------------------------------------------------

func (r *BookingGormRepository) HasTimeOff(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TimeOff{}).
		Where(
			"tenant_id = ? AND staff_id = ? AND start_time < ? AND end_time > ?",
			tenantID, staffID, end, start,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) GetStaffSchedule(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	locationID uint,
	weekday int,
) (*models.StaffSchedule, error) {

	// Location-specific row wins over the location-agnostic one.
	var sched models.StaffSchedule
	if err := r.db.WithContext(ctx).
		Preload("Breaks").
		Where(
			"tenant_id = ? AND staff_id = ? AND weekday = ? AND (location_id = ? OR location_id = 0)",
			tenantID, staffID, weekday, locationID,
		).
		Order("location_id DESC").
		First(&sched).Error; err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *BookingGormRepository) GetTenantWorkHours(
	ctx context.Context,
	tenantID uint,
	weekday int,
) (*models.TenantWorkHours, error) {

	var wh models.TenantWorkHours
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND weekday = ?", tenantID, weekday).
		First(&wh).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

// --------------------------------------------------
// Resources
// --------------------------------------------------

func (r *BookingGormRepository) SumActiveCapacity(
	ctx context.Context,
	tenantID uint,
	resourceTypeID uint,
) (int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where(
			"tenant_id = ? AND resource_type_id = ? AND active = ?",
			tenantID, resourceTypeID, true,
		).
		Select("COALESCE(SUM(capacity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookingGormRepository) CountReservations(
	ctx context.Context,
	tenantID uint,
	resourceTypeID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResourceReservation{}).
		Where(
			"tenant_id = ? AND resource_type_id = ? AND start_time < ? AND end_time > ?",
			tenantID, resourceTypeID, end, start,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingGormRepository) CountHeldUnits(
	ctx context.Context,
	tenantID uint,
	resourceTypeID uint,
	start time.Time,
	end time.Time,
	now time.Time,
	excludeHoldID string,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Table("booking_hold_items").
		Joins("JOIN booking_holds ON booking_holds.id = booking_hold_items.hold_id").
		Where(
			"booking_holds.tenant_id = ? AND booking_holds.expires_at > ?",
			tenantID, now,
		).
		Where(
			"booking_hold_items.kind = ? AND booking_hold_items.resource_type_id = ?",
			models.HoldItemResource, resourceTypeID,
		).
		Where(
			"booking_hold_items.start_time < ? AND booking_hold_items.end_time > ?",
			end, start,
		)

	if excludeHoldID != "" {
		q = q.Where("booking_holds.id <> ?", excludeHoldID)
	}

	var units int64
	if err := q.
		Select("COALESCE(SUM(booking_hold_items.quantity), 0)").
		Scan(&units).Error; err != nil {
		return 0, err
	}
	return units, nil
}

func (r *BookingGormRepository) CreateReservations(
	ctx context.Context,
	rs []models.ResourceReservation,
) error {
	if len(rs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rs).Error
}

func (r *BookingGormRepository) DeleteReservationsForAppointment(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.ResourceReservation{}).Error
}

func (r *BookingGormRepository) ListReservationsForAppointment(
	ctx context.Context,
	appointmentID uint,
) ([]models.ResourceReservation, error) {

	var rs []models.ResourceReservation
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("id ASC").
		Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

// --------------------------------------------------
// Booking holds
// --------------------------------------------------

func (r *BookingGormRepository) FindBlockingHold(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
	now time.Time,
) (*models.BookingHold, error) {

	var item models.BookingHoldItem
	err := r.db.WithContext(ctx).
		Model(&models.BookingHoldItem{}).
		Select("booking_hold_items.*").
		Joins("JOIN booking_holds ON booking_holds.id = booking_hold_items.hold_id").
		Where(
			"booking_holds.tenant_id = ? AND booking_holds.expires_at > ?",
			tenantID, now,
		).
		Where(
			"booking_hold_items.kind = ? AND booking_hold_items.staff_id = ?",
			models.HoldItemStaff, staffID,
		).
		Where(
			"booking_hold_items.start_time < ? AND booking_hold_items.end_time > ?",
			end, start,
		).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var hold models.BookingHold
	if err := r.db.WithContext(ctx).
		First(&hold, "id = ?", item.HoldID).Error; err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *BookingGormRepository) CreateHold(
	ctx context.Context,
	h *models.BookingHold,
) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *BookingGormRepository) DeleteHold(
	ctx context.Context,
	holdID string,
) error {

	if err := r.db.WithContext(ctx).
		Where("hold_id = ?", holdID).
		Delete(&models.BookingHoldItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", holdID).
		Delete(&models.BookingHold{}).Error
}

func (r *BookingGormRepository) DeleteExpiredHolds(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.BookingHold{}).
		Where("expires_at < ?", now).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).
		Where("hold_id IN ?", ids).
		Delete(&models.BookingHoldItem{}).Error; err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.BookingHold{})
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
