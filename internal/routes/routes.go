package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/groomly/grooming-scheduler/internal/audit"
	"github.com/groomly/grooming-scheduler/internal/config"
	"github.com/groomly/grooming-scheduler/internal/handlers"
	"github.com/groomly/grooming-scheduler/internal/hold"
	"github.com/groomly/grooming-scheduler/internal/infra/repository"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/notify"
	ucBooking "github.com/groomly/grooming-scheduler/internal/usecase/booking"
)

// RegisterRoutes wires the repository, dispatchers, hold manager and
// use cases, then mounts the HTTP surface. The returned manager is
// handed to the expiry sweeper by main.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	locker hold.SlotLocker,
) *hold.Manager {

	repo := repository.NewBookingGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	notifyDispatcher := notify.NewDispatcher(notify.LogNotifier{})

	holdManager := hold.NewManager(repo, locker, cfg.HoldTTL)

	availabilityUC := ucBooking.NewCheckAvailability(repo)
	capacityUC := ucBooking.NewCheckResourceCapacity(repo)
	slotsUC := ucBooking.NewGetAvailability(repo)
	createUC := ucBooking.NewCreateAppointment(repo, holdManager, auditDispatcher, notifyDispatcher)
	updateUC := ucBooking.NewUpdateAppointment(repo, holdManager, auditDispatcher, notifyDispatcher)
	cancelUC := ucBooking.NewCancelAppointment(repo, auditDispatcher, notifyDispatcher)
	completeUC := ucBooking.NewCompleteAppointment(repo, auditDispatcher)
	noShowUC := ucBooking.NewMarkNoShow(repo, auditDispatcher)

	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(
		db, createUC, updateUC, cancelUC, completeUC, noShowUC,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(
		db, availabilityUC, capacityUC, slotsUC,
	)
	holdHandler := handlers.NewHoldHandler(db, holdManager)
	scheduleHandler := handlers.NewScheduleHandler(db)
	resourceHandler := handlers.NewResourceHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)

	api := r.Group("/api")

	// --------------------------------------------------
	// PUBLIC
	// --------------------------------------------------
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// --------------------------------------------------
	// AUTHENTICATED
	// --------------------------------------------------
	me := api.Group("/me")
	me.Use(middleware.AuthMiddleware(cfg))
	{
		me.POST("/appointments", appointmentHandler.Create)
		me.GET("/appointments", appointmentHandler.ListByDate)
		me.PATCH("/appointments/:id", appointmentHandler.Update)
		me.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
		me.POST("/appointments/:id/complete", appointmentHandler.Complete)
		me.POST("/appointments/:id/no-show", appointmentHandler.NoShow)

		me.POST("/availability/check", availabilityHandler.Check)
		me.GET("/availability/slots", availabilityHandler.Slots)

		me.POST("/holds", holdHandler.Create)
		me.DELETE("/holds/:id", holdHandler.Release)
		me.GET("/holds/check", holdHandler.Check)

		me.GET("/staff/:staffId/schedules", scheduleHandler.ListForStaff)
		me.PUT("/staff/:staffId/schedules", scheduleHandler.Upsert)
		me.GET("/staff/:staffId/time-off", scheduleHandler.ListTimeOff)
		me.POST("/staff/:staffId/time-off", scheduleHandler.CreateTimeOff)
		me.DELETE("/time-off/:id", scheduleHandler.DeleteTimeOff)
		me.PUT("/staff/:staffId/qualifications", serviceHandler.SetQualifications)

		me.GET("/resource-types", resourceHandler.ListTypes)
		me.POST("/resource-types", resourceHandler.CreateType)
		me.GET("/resources", resourceHandler.List)
		me.POST("/resources", resourceHandler.Create)
		me.PATCH("/resources/:id", resourceHandler.Update)

		me.GET("/services", serviceHandler.List)
		me.POST("/services", serviceHandler.Create)
		me.GET("/services/:serviceId/items", serviceHandler.ListItems)
		me.POST("/services/:serviceId/items", serviceHandler.CreateItem)

		me.GET("/customers", customerHandler.List)
		me.POST("/customers", customerHandler.Create)
		me.GET("/customers/:customerId/pets", customerHandler.ListPets)
		me.POST("/customers/:customerId/pets", customerHandler.CreatePet)
	}

	return holdManager
}
