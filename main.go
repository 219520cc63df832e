package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/controllers"
	"github.com/jobquote/jobquote-api/middleware"
	"github.com/jobquote/jobquote-api/models"
	"github.com/jobquote/jobquote-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting JobQuote API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Client{},
		&models.Estimate{},
		&models.EstimateItem{},
		&models.EstimateTemplate{},
		&models.EstimateTemplateItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services backed by external providers
	storage, err := services.InitStorageService()
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	services.InitRenderService(db, storage)
	services.InitEmailService()

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS, auth middleware and all API
// routes. Kept separate from main so tests can spin up the full application.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Stripe-Signature"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Stripe calls this directly; trust comes from the signature header
		v1.POST("/webhooks/stripe", controllers.StripeWebhook)

		// Everything else requires a valid JWT
		authorized := v1.Group("")
		authorized.Use(middleware.EnsureValidToken(cfg))
		{
			authorized.POST("/users", controllers.CreateUser)
			authorized.GET("/users/me", controllers.GetMyProfile)
			authorized.PUT("/users/me", controllers.UpdateMyProfile)

			authorized.POST("/companies", controllers.CreateCompany)
			authorized.GET("/companies/me", controllers.GetMyCompany)
			authorized.PUT("/companies/me", controllers.UpdateMyCompany)

			authorized.POST("/clients", controllers.CreateClient)
			authorized.GET("/clients", controllers.ListClients)
			authorized.GET("/clients/:id", controllers.GetClient)
			authorized.PUT("/clients/:id", controllers.UpdateClient)
			authorized.DELETE("/clients/:id", controllers.DeleteClient)

			authorized.POST("/estimates", controllers.CreateEstimate)
			authorized.GET("/estimates", controllers.ListEstimates)
			authorized.GET("/estimates/:id", controllers.GetEstimate)
			authorized.DELETE("/estimates/:id", controllers.DeleteEstimate)
			authorized.POST("/estimates/:id/duplicate", controllers.DuplicateEstimate)
			authorized.POST("/estimates/:id/pdf", controllers.GenerateEstimatePDF)
			authorized.POST("/estimates/:id/send", controllers.SendEstimate)
			authorized.POST("/estimates/:id/accept", controllers.AcceptEstimate)
			authorized.POST("/estimates/:id/decline", controllers.DeclineEstimate)

			authorized.POST("/templates", controllers.CreateTemplate)
			authorized.GET("/templates", controllers.ListTemplates)
			authorized.GET("/templates/:id", controllers.GetTemplate)
			authorized.PUT("/templates/:id", controllers.UpdateTemplate)
			authorized.DELETE("/templates/:id", controllers.DeleteTemplate)
			authorized.GET("/templates/:id/items", controllers.GetTemplateItems)

			authorized.POST("/uploads/logo", controllers.UploadLogo)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "JobQuote API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables. The query differs between Postgres (prod) and
	// SQLite (tests).
	var tables []string
	query := "SELECT tablename FROM pg_tables WHERE schemaname = 'public'"
	if db.Dialector.Name() == "sqlite" {
		query = "SELECT name FROM sqlite_master WHERE type = 'table'"
	}
	if err := db.Raw(query).Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
