package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

// SetupRouter builds the gin engine with the full route table. Init must
// have been called first.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	// Public endpoints.
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", Login)
		authRoutes.POST("/register", Register)
		authRoutes.POST("/refresh-token", RefreshToken)
	}

	// Everything else requires a valid bearer token.
	api := r.Group("/", middleware.Authenticate(&cfg.JWT))
	{
		api.POST("/auth/logout", Logout)
		api.GET("/auth/me", Me)

		users := api.Group("/users")
		{
			users.GET("", middleware.RequireRole(models.RoleAdmin), ListUsers)
			users.POST("", middleware.RequireRole(models.RoleAdmin), CreateUser)
			users.GET("/:user_id", GetUser)
			users.PATCH("/:user_id", UpdateUser)
			users.DELETE("/:user_id", middleware.RequireRole(models.RoleAdmin), DeactivateUser)
		}

		staff := middleware.RequireRole(models.RoleAdmin, models.RoleReceptionist, models.RoleDoctor)
		frontDesk := middleware.RequireRole(models.RoleAdmin, models.RoleReceptionist)

		patients := api.Group("/patients")
		{
			patients.GET("", staff, ListPatients)
			patients.GET("/search", staff, SearchPatients)
			patients.GET("/:patient_id", staff, GetPatient)
			patients.POST("", frontDesk, CreatePatient)
			patients.PATCH("/:patient_id", frontDesk, UpdatePatient)
			patients.DELETE("/:patient_id", middleware.RequireRole(models.RoleAdmin), DeletePatient)
		}

		doctors := api.Group("/doctors")
		{
			doctors.GET("", ListDoctors)
			doctors.GET("/:doctor_id", GetDoctor)
			doctors.GET("/:doctor_id/schedule", staff, DoctorSchedule)
			doctors.POST("", middleware.RequireRole(models.RoleAdmin), CreateDoctor)
			doctors.PATCH("/:doctor_id", middleware.RequireRole(models.RoleAdmin), UpdateDoctor)
			doctors.DELETE("/:doctor_id", middleware.RequireRole(models.RoleAdmin), DeactivateDoctor)
		}

		appointments := api.Group("/appointments")
		{
			appointments.GET("", ListAppointments)
			appointments.GET("/:appointment_id", GetAppointment)
			appointments.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleReceptionist, models.RolePatient), CreateAppointment)
			appointments.PATCH("/:appointment_id", frontDesk, UpdateAppointment)
			appointments.DELETE("/:appointment_id", CancelAppointment)
		}

		clinical := middleware.RequireRole(models.RoleAdmin, models.RoleDoctor)

		visits := api.Group("/visits")
		{
			visits.GET("", staff, ListVisits)
			visits.GET("/:visit_id", staff, GetVisit)
			visits.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist), CreateVisit)
			visits.PATCH("/:visit_id", clinical, UpdateVisit)
			visits.DELETE("/:visit_id", middleware.RequireRole(models.RoleAdmin), DeleteVisit)
		}

		prescriptions := api.Group("/prescriptions")
		{
			prescriptions.GET("/:prescription_id", staff, GetPrescription)
			prescriptions.POST("", clinical, CreatePrescription)
			prescriptions.PATCH("/:prescription_id", clinical, UpdatePrescription)
			prescriptions.DELETE("/:prescription_id", middleware.RequireRole(models.RoleAdmin), DeletePrescription)
		}

		treatments := api.Group("/treatments")
		{
			treatments.GET("/:treatment_id", staff, GetTreatment)
			treatments.POST("", clinical, CreateTreatment)
		}

		billings := api.Group("/billings")
		{
			billings.GET("/:billing_id", frontDesk, GetBilling)
			billings.POST("", frontDesk, CreateBilling)
			billings.PATCH("/:billing_id", frontDesk, UpdateBilling)
		}

		stockRoles := middleware.RequireRole(models.RoleAdmin, models.RoleTechnician)
		inventory := api.Group("/inventory")
		{
			inventory.GET("", stockRoles, ListInventory)
			inventory.GET("/:item_id", stockRoles, GetInventoryItem)
			inventory.POST("", stockRoles, CreateInventoryItem)
			inventory.PATCH("/:item_id", stockRoles, UpdateInventoryItem)
			inventory.DELETE("/:item_id", middleware.RequireRole(models.RoleAdmin), DeleteInventoryItem)
		}

		api.GET("/analytics/:report_type", middleware.RequireRole(models.RoleAdmin), Analytics)
	}

	return r
}
