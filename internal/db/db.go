package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/config"
	"github.com/groomly/grooming-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(Models()...); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE tenants
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}

// Models lists every table the engine owns, in migration order. The
// test harness migrates the same set against sqlite.
func Models() []any {
	return []any{
		&models.Tenant{},
		&models.Location{},
		&models.TenantWorkHours{},
		&models.Staff{},
		&models.StaffQualification{},
		&models.Customer{},
		&models.Pet{},
		&models.Service{},
		&models.ServiceItem{},
		&models.ServiceItemResource{},
		&models.ResourceType{},
		&models.Resource{},
		&models.StaffSchedule{},
		&models.ScheduleBreak{},
		&models.TimeOff{},
		&models.Appointment{},
		&models.ResourceReservation{},
		&models.BookingHold{},
		&models.BookingHoldItem{},
		&models.AuditLog{},
	}
}
