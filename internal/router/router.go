// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/config"
	"github.com/propfolio/brokerage-backend/internal/handlers"
	"github.com/propfolio/brokerage-backend/internal/middleware"
	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	configService := services.NewConfigService(db, cfg)
	scheduleService := services.NewScheduleService(db)
	agentService := services.NewAgentService(db)

	authService := services.NewAuthService(db, cfg)
	propertyService := services.NewPropertyService(db, storageService)
	transactionService := services.NewTransactionService(db, agentService, scheduleService, configService, notificationService, storageService)
	approvalService := services.NewApprovalService(db, scheduleService, notificationService)
	installmentService := services.NewInstallmentService(db, notificationService)
	forecastService := services.NewForecastService(db, configService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, storageService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, installmentService, storageService)
	installmentHandler := handlers.NewInstallmentHandler(installmentService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	forecastHandler := handlers.NewForecastHandler(forecastService)
	agentHandler := handlers.NewAgentHandler(agentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Property routes
		properties := v1.Group("/properties")
		{
			properties.GET("", middleware.OptionalAuth(), propertyHandler.SearchProperties)
			properties.GET("/:id", middleware.OptionalAuth(), propertyHandler.GetProperty)

			protected := properties.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", propertyHandler.CreateProperty)
				protected.PUT("/:id", propertyHandler.UpdateProperty)
				protected.PATCH("/:id/status", propertyHandler.UpdatePropertyStatus)
				protected.POST("/:id/images", middleware.UploadRateLimit(), propertyHandler.UploadPropertyImage)
				protected.DELETE("/:id", propertyHandler.DeleteProperty)
			}
		}

		// Transaction routes
		transactions := v1.Group("/transactions")
		transactions.Use(middleware.AuthRequired())
		{
			transactions.POST("/calculate", transactionHandler.CalculateCommission)
			transactions.POST("", transactionHandler.CreateTransaction)
			transactions.GET("", transactionHandler.GetTransactions)
			transactions.GET("/:id", transactionHandler.GetTransaction)
			transactions.GET("/:id/breakdown", transactionHandler.GetTransactionBreakdown)
			transactions.GET("/:id/installments", transactionHandler.GetTransactionInstallments)
			transactions.GET("/:id/documents", transactionHandler.GetTransactionDocuments)
		transactions.POST("/:id/documents", middleware.UploadRateLimit(), transactionHandler.UploadTransactionDocument)
			transactions.POST("/:id/cancel", transactionHandler.CancelTransaction)
		}

		// Installment routes
		installments := v1.Group("/installments")
		installments.Use(middleware.AuthRequired())
		{
			installments.GET("", installmentHandler.GetInstallments)
			installments.GET("/:id", installmentHandler.GetInstallment)
			installments.PATCH("/:id/status", middleware.AdminRequired(), installmentHandler.UpdateInstallmentStatus)
		}

		// Payment schedule catalog
		schedules := v1.Group("/payment-schedules")
		schedules.Use(middleware.AuthRequired())
		{
			schedules.GET("", scheduleHandler.GetSchedules)
			schedules.GET("/default", scheduleHandler.GetDefaultSchedule)
			schedules.GET("/:id", scheduleHandler.GetSchedule)
			schedules.POST("", middleware.AdminRequired(), scheduleHandler.CreateSchedule)
			schedules.PUT("/:id", middleware.AdminRequired(), scheduleHandler.UpdateSchedule)
			schedules.DELETE("/:id", middleware.AdminRequired(), scheduleHandler.DeleteSchedule)
		}

		// Approval routes
		approvals := v1.Group("/approvals")
		approvals.Use(middleware.AuthRequired())
		{
			approvals.GET("", approvalHandler.GetApprovals)
			approvals.GET("/:id", approvalHandler.GetApproval)
			approvals.GET("/:id/history", approvalHandler.GetApprovalHistory)
			approvals.POST("/:id/comments", approvalHandler.AddApprovalComment)
			approvals.PATCH("/:id/status", middleware.AdminRequired(), approvalHandler.UpdateApprovalStatus)
		}

		// Forecast routes
		forecast := v1.Group("/forecast")
		forecast.Use(middleware.AuthRequired())
		{
			forecast.GET("", forecastHandler.GetAgentForecast)
			forecast.GET("/cycle", forecastHandler.GetPaymentCycle)
			forecast.GET("/agency", middleware.AdminRequired(), forecastHandler.GetAgencyForecast)
		}

		// Agent tier routes
		tiers := v1.Group("/agent-tiers")
		tiers.Use(middleware.AuthRequired())
		{
			tiers.GET("", agentHandler.GetTiers)
			tiers.POST("", middleware.AdminRequired(), agentHandler.CreateTier)
			tiers.PUT("/:id", middleware.AdminRequired(), agentHandler.UpdateTier)
			tiers.POST("/assign", middleware.AdminRequired(), agentHandler.AssignTier)
		}

		// Agent dashboard
		agents := v1.Group("/agents")
		agents.Use(middleware.AuthRequired())
		{
			agents.GET("/dashboard", agentHandler.GetDashboard)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}

	return r
}
