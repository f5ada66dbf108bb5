package routes

import (
	"spabook-backend/config"
	"spabook-backend/controllers"
	"spabook-backend/models"
	"spabook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public discovery
	r.GET("/api/spas/nearby", controllers.NearbySpas)
	r.GET("/api/spas/:id", controllers.GetSpa)
	r.GET("/api/spas/:id/feedback", controllers.GetSpaFeedback)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Booking lifecycle
		bookings := api.Group("/bookings")
		{
			bookings.POST("", utils.RequireRole(models.RoleCustomer), controllers.CreateBooking)
			bookings.GET("", controllers.GetBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.PUT("/:id/accept", utils.RequireRole(models.RoleOwner, models.RoleAdmin), controllers.AcceptBooking)
			bookings.PUT("/:id/reject", utils.RequireRole(models.RoleOwner, models.RoleAdmin), controllers.RejectBooking)
			bookings.PUT("/:id/complete", utils.RequireRole(models.RoleOwner, models.RoleAdmin), controllers.CompleteBooking)
			bookings.PUT("/:id/reschedule", controllers.RescheduleBooking)
			bookings.PUT("/:id/cancel", controllers.CancelBooking)
		}

		// Owner spa management
		spa := api.Group("/spa", utils.RequireRole(models.RoleOwner))
		{
			spa.GET("", controllers.GetMySpa)
			spa.PUT("", controllers.UpdateMySpa)
		}

		// Service routes
		services := api.Group("/services", utils.RequireRole(models.RoleOwner))
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Staff routes
		staff := api.Group("/staff", utils.RequireRole(models.RoleOwner))
		{
			staff.POST("", controllers.CreateStaff)
			staff.GET("", controllers.GetStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
		}

		// Coupon routes
		coupons := api.Group("/coupons", utils.RequireRole(models.RoleOwner, models.RoleAdmin))
		{
			coupons.POST("", controllers.CreateCoupon)
			coupons.GET("", controllers.GetCoupons)
			coupons.PUT("/:id/deactivate", controllers.DeactivateCoupon)
		}

		// Payout routes
		payouts := api.Group("/payouts")
		{
			payouts.GET("/balance", utils.RequireRole(models.RoleOwner), controllers.GetBalance)
			payouts.POST("", utils.RequireRole(models.RoleOwner), controllers.RequestPayout)
			payouts.GET("", utils.RequireRole(models.RoleOwner, models.RoleAdmin), controllers.GetPayouts)
			payouts.PUT("/:id/review", utils.RequireRole(models.RoleAdmin), controllers.ReviewPayout)
			payouts.PUT("/:id/complete", utils.RequireRole(models.RoleAdmin), controllers.CompletePayout)
		}

		// Loyalty routes
		api.GET("/loyalty", utils.RequireRole(models.RoleCustomer), controllers.GetLoyalty)

		// Feedback routes
		api.POST("/feedback", utils.RequireRole(models.RoleCustomer), controllers.CreateFeedback)

		// Admin routes
		admin := api.Group("/admin", utils.RequireRole(models.RoleAdmin))
		{
			admin.GET("/spas/pending", controllers.ListPendingSpas)
			admin.PUT("/spas/:id/approve", controllers.ApproveSpa)
		}

		//Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports/revenue", utils.RequireRole(models.RoleOwner), reportController.GetRevenueReport)

		// Dashboard routes
		api.GET("/dashboard", utils.RequireRole(models.RoleOwner), controllers.GetDashboardOverview)
	}

	return r
}
