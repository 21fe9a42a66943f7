package routes

import (
	"petcare-clinic-server/internal/config"
	"petcare-clinic-server/internal/handlers"
	"petcare-clinic-server/internal/medical"
	"petcare-clinic-server/internal/middleware"
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scheduling"
	"petcare-clinic-server/internal/scope"
	"petcare-clinic-server/internal/uploads"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, store *uploads.Store) {
	resolver := scope.NewResolver(scope.NewGormDirectory(db))
	scheduler := scheduling.NewService(scheduling.NewGormRepository(db), scope.NewGormDirectory(db))
	recorder := medical.NewService(medical.NewGormRepository(db), scope.NewGormDirectory(db))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	petHandler := handlers.NewPetHandler(db, resolver, store)
	appointmentHandler := handlers.NewAppointmentHandler(db, scheduler, resolver)
	medicalHandler := handlers.NewMedicalHandler(db, recorder, resolver)
	dashboardHandler := handlers.NewDashboardHandler(db, resolver)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
			authRoutesPrivate.DELETE("/account", authHandler.DeleteAccount)
		}

		// Role dashboards
		private.GET("/dashboard", dashboardHandler.GetDashboard)

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Vet directory is open to every authenticated user so owners
			// can pick a vet when booking.
			userRoutes.GET("/veterinarians", userHandler.GetVeterinarians)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/autocomplete", userHandler.AutocompleteUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Pet routes
		petRoutes := private.Group("/pets")
		{
			petRoutes.GET("", petHandler.GetPets)
			petRoutes.GET("/:id", petHandler.GetPetByID)
			petRoutes.GET("/:id/medical", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleVeterinarian), medicalHandler.GetPetMedical)

			petRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePetOwner), petHandler.CreatePet)
			petRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePetOwner), petHandler.UpdatePet)
			petRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), petHandler.DeletePet)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePetOwner), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.PATCH("/:id/status", middleware.RoleAuthMiddleware(models.RoleVeterinarian), appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/cancel", middleware.RoleAuthMiddleware(models.RolePetOwner), appointmentHandler.CancelAppointment)
		}

		// Medical record routes
		vaccinationRoutes := private.Group("/vaccinations")
		{
			vaccinationRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleVeterinarian), medicalHandler.AddVaccination)
			vaccinationRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleVeterinarian), medicalHandler.GetVaccinations)
		}
		medicationRoutes := private.Group("/medications")
		{
			medicationRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleVeterinarian), medicalHandler.AddMedication)
			medicationRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleVeterinarian), medicalHandler.GetMedications)
		}
	}

	// Uploaded pet images are served straight from disk.
	router.Static("/uploads", cfg.UploadDir)

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
