package booking

import (
	"context"
	"time"

	"github.com/groomly/grooming-scheduler/internal/models"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one store
	// transaction; returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Tenant / catalog --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	GetStaff(
		ctx context.Context,
		tenantID uint,
		staffID uint,
	) (*models.Staff, error)

	ListQualifiedServiceIDs(
		ctx context.Context,
		staffID uint,
	) ([]uint, error)

	GetServiceItem(
		ctx context.Context,
		tenantID uint,
		serviceItemID uint,
	) (*models.ServiceItem, error)

	// -------- Appointments --------
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		id uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	SaveAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CountOverlappingAppointments(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (int64, error)

	ListAppointmentsForDay(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	// -------- Schedules / time off --------
	HasTimeOff(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	GetStaffSchedule(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		locationID uint,
		weekday int,
	) (*models.StaffSchedule, error)

	GetTenantWorkHours(
		ctx context.Context,
		tenantID uint,
		weekday int,
	) (*models.TenantWorkHours, error)

	// -------- Resources --------
	SumActiveCapacity(
		ctx context.Context,
		tenantID uint,
		resourceTypeID uint,
	) (int64, error)

	CountReservations(
		ctx context.Context,
		tenantID uint,
		resourceTypeID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	CountHeldUnits(
		ctx context.Context,
		tenantID uint,
		resourceTypeID uint,
		start time.Time,
		end time.Time,
		now time.Time,
		excludeHoldID string,
	) (int64, error)

	CreateReservations(
		ctx context.Context,
		rs []models.ResourceReservation,
	) error

	DeleteReservationsForAppointment(
		ctx context.Context,
		appointmentID uint,
	) error

	ListReservationsForAppointment(
		ctx context.Context,
		appointmentID uint,
	) ([]models.ResourceReservation, error)

	// -------- Booking holds --------
	FindBlockingHold(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		start time.Time,
		end time.Time,
		now time.Time,
	) (*models.BookingHold, error)

	CreateHold(
		ctx context.Context,
		h *models.BookingHold,
	) error

	DeleteHold(
		ctx context.Context,
		holdID string,
	) error

	DeleteExpiredHolds(
		ctx context.Context,
		now time.Time,
	) (int64, error)
}
