package booking

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/groomly/grooming-scheduler/internal/audit"
	"github.com/groomly/grooming-scheduler/internal/db"
	"github.com/groomly/grooming-scheduler/internal/hold"
	"github.com/groomly/grooming-scheduler/internal/infra/repository"
	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/notify"
)

// newTestDB opens an in-memory store capped at one connection so
// concurrent test goroutines serialize instead of racing the driver.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return gdb
}

// fixtures is a minimal grooming salon: one tenant (UTC), one
// location, two groomers on a Monday 09:00-18:00 schedule with a
// 12:00-12:30 break, one customer, one "Full Groom / Large" variant
// of 60 minutes that needs one tub for its first 30 minutes, and a
// single tub unit.
type fixtures struct {
	tenant   models.Tenant
	location models.Location
	staff1   models.Staff
	staff2   models.Staff
	customer models.Customer
	service  models.Service
	item     models.ServiceItem
	tubType  models.ResourceType
}

// monday returns a fixed Monday instant at the given UTC clock time.
func monday(hour, min int) time.Time {
	return time.Date(2025, 3, 3, hour, min, 0, 0, time.UTC)
}

func seedFixtures(t *testing.T, gdb *gorm.DB) fixtures {
	t.Helper()

	f := fixtures{}

	f.tenant = models.Tenant{Name: "Happy Paws", Slug: "happy-paws", Timezone: "UTC"}
	mustCreate(t, gdb, &f.tenant)

	f.location = models.Location{TenantID: f.tenant.ID, Name: "Downtown"}
	mustCreate(t, gdb, &f.location)

	f.staff1 = models.Staff{
		TenantID: f.tenant.ID, Name: "Ana", Email: "ana@happypaws.test",
		PasswordHash: "x", Role: "groomer", Active: true,
	}
	mustCreate(t, gdb, &f.staff1)

	f.staff2 = models.Staff{
		TenantID: f.tenant.ID, Name: "Bia", Email: "bia@happypaws.test",
		PasswordHash: "x", Role: "groomer", Active: true,
	}
	mustCreate(t, gdb, &f.staff2)

	f.customer = models.Customer{TenantID: f.tenant.ID, Name: "Carlos"}
	mustCreate(t, gdb, &f.customer)

	f.service = models.Service{TenantID: f.tenant.ID, Name: "Full Groom", Active: true}
	mustCreate(t, gdb, &f.service)

	f.tubType = models.ResourceType{TenantID: f.tenant.ID, Name: "Grooming Tub"}
	mustCreate(t, gdb, &f.tubType)

	tub := models.Resource{
		TenantID:       f.tenant.ID,
		LocationID:     f.location.ID,
		ResourceTypeID: f.tubType.ID,
		Name:           "Tub 1",
		Active:         true,
		Capacity:       1,
	}
	mustCreate(t, gdb, &tub)

	f.item = models.ServiceItem{
		TenantID:    f.tenant.ID,
		ServiceID:   f.service.ID,
		Variant:     "Large",
		DurationMin: 60,
		Active:      true,
		RequiredResources: []models.ServiceItemResource{
			{ResourceTypeID: f.tubType.ID, DurationMin: 30, Quantity: 1},
		},
	}
	mustCreate(t, gdb, &f.item)

	for _, staffID := range []uint{f.staff1.ID, f.staff2.ID} {
		sched := models.StaffSchedule{
			TenantID:  f.tenant.ID,
			StaffID:   staffID,
			Weekday:   1, // Monday
			StartTime: "09:00",
			EndTime:   "18:00",
			Active:    true,
			Breaks: []models.ScheduleBreak{
				{StartTime: "12:00", EndTime: "12:30"},
			},
		}
		mustCreate(t, gdb, &sched)
	}

	return f
}

func newRepo(gdb *gorm.DB) *repository.BookingGormRepository {
	return repository.NewBookingGormRepository(gdb)
}

func mustCreate(t *testing.T, gdb *gorm.DB, v any) {
	t.Helper()
	if err := gdb.Create(v).Error; err != nil {
		t.Fatalf("failed to seed %T: %v", v, err)
	}
}

// env bundles everything a booking test needs.
type env struct {
	db    *gorm.DB
	f     fixtures
	repo  *repository.BookingGormRepository
	holds *hold.Manager

	create   *CreateAppointment
	update   *UpdateAppointment
	cancel   *CancelAppointment
	complete *CompleteAppointment
	noShow   *MarkNoShow
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb := newTestDB(t)
	f := seedFixtures(t, gdb)
	repo := repository.NewBookingGormRepository(gdb)

	holds := hold.NewManager(repo, hold.NewMemoryLocker(), hold.DefaultTTL)
	auditD := audit.NewDispatcher(audit.New(gdb))
	notifyD := notify.NewDispatcher(notify.Noop{})

	return &env{
		db:    gdb,
		f:     f,
		repo:  repo,
		holds: holds,

		create:   NewCreateAppointment(repo, holds, auditD, notifyD),
		update:   NewUpdateAppointment(repo, holds, auditD, notifyD),
		cancel:   NewCancelAppointment(repo, auditD, notifyD),
		complete: NewCompleteAppointment(repo, auditD),
		noShow:   NewMarkNoShow(repo, auditD),
	}
}

func (e *env) createInput(staffID uint, start time.Time) CreateAppointmentInput {
	return CreateAppointmentInput{
		TenantID:      e.f.tenant.ID,
		LocationID:    e.f.location.ID,
		CustomerID:    e.f.customer.ID,
		StaffID:       staffID,
		ServiceID:     e.f.service.ID,
		ServiceItemID: e.f.item.ID,
		Start:         start,
		CreatedBy:     "test",
	}
}

func (e *env) countRows(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}
