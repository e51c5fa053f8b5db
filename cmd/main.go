package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/finwiseapp/gin-finance-api/docs" // Import generated docs
	"github.com/finwiseapp/gin-finance-api/internal/auth"
	"github.com/finwiseapp/gin-finance-api/internal/config"
	"github.com/finwiseapp/gin-finance-api/internal/controllers"
	"github.com/finwiseapp/gin-finance-api/internal/database"
	"github.com/finwiseapp/gin-finance-api/internal/middleware"
	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config

	sessionManager *auth.SessionManager
	stateStore     auth.StateStore
	googleProvider *auth.GoogleProvider

	authController        *controllers.AuthController
	clientController      *controllers.ClientController
	transactionController controllers.TransactionController
	goalController        controllers.GoalController
	budgetController      controllers.BudgetController
	reminderController    controllers.ReminderController
	migrationController   controllers.MigrationController
)

// @title FinWise API
// @version 1.0
// @description Personal finance tracking API: transactions, goals, budgets and reminders with Google sign-in
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Auth building blocks
	sessionManager = auth.NewSessionManager(db, configuration.JWTSecret, configuration.WebClientID, configuration.WebClientSecret)
	stateStore = auth.NewStateStore()
	googleProvider = auth.NewGoogleProvider(configuration.GoogleClientID, configuration.GoogleClientSecret, configuration.GoogleRedirectURL)
	if !googleProvider.Configured() {
		log.Warn("Google OAuth credentials not set; Google sign-in is disabled")
	}

	// Initialize services and controllers
	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)
	transactionService := services.NewTransactionService(db)
	goalService := services.NewGoalService(db)
	budgetService := services.NewBudgetService(db, transactionService)
	reminderService := services.NewReminderService(db)
	migrationService := services.NewMigrationService(db)

	authController = controllers.NewAuthController(userService, sessionManager, stateStore, googleProvider)
	clientController = controllers.NewClientController(clientService)
	transactionController = controllers.NewTransactionController(transactionService)
	goalController = controllers.NewGoalController(goalService)
	budgetController = controllers.NewBudgetController(budgetService)
	reminderController = controllers.NewReminderController(reminderService)
	migrationController = controllers.NewMigrationController(migrationService)

	// Expired state tokens are also swept opportunistically on issuance;
	// the ticker keeps an idle server from accumulating them.
	go sweepExpiredStates(stateStore)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %+v", conf)
	return conf
}

// setupDatabase initializes the database connection and returns a gorm.DB instance
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  "disable",
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	checkPanicErr(database.Migrate(db))

	seedWebClient(conf)
	return db
}

// seedWebClient registers the first-party web client used for session
// token issuance. The stored secret is a bcrypt hash; the plaintext only
// lives in configuration.
func seedWebClient(conf *config.Config) {
	var existing models.OAuthClient
	if err := db.Where("id = ?", conf.WebClientID).First(&existing).Error; err == nil {
		log.WithField("client_id", conf.WebClientID).Info("First-party web client already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(conf.WebClientSecret), bcrypt.DefaultCost)
	checkPanicErr(err)

	client := models.OAuthClient{
		ID:         conf.WebClientID,
		Secret:     string(hash),
		Name:       "FinWise Web",
		Domain:     "http://localhost",
		Scopes:     "read write",
		GrantTypes: "implicit refresh_token",
	}
	checkPanicErr(db.Create(&client).Error)
	log.WithField("client_id", conf.WebClientID).Info("First-party web client registered")
}

// sweepExpiredStates drops expired OAuth state tokens on a fixed interval
func sweepExpiredStates(states auth.StateStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if removed := states.CleanupExpiredStates(); removed > 0 {
			log.WithField("removed", removed).Debug("Swept expired OAuth state tokens")
		}
	}
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public but for auth purposes)
		authApi := v1.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
			authApi.POST("/refresh", authController.Refresh)
			authApi.GET("/google/start", authController.GoogleStart)
			authApi.GET("/google/callback", authController.GoogleCallback)

			// Browser clients resolve the identity behind a fresh token here
			authApi.GET("/profile", middleware.OAuth2Auth([]byte(configuration.JWTSecret)), authController.Profile)
			authApi.POST("/migrate", middleware.OAuth2Auth([]byte(configuration.JWTSecret)), migrationController.Migrate)
		}

		// Protected routes (requires JWT authentication)
		protectedApi := v1.Group("/protected")
		protectedApi.Use(middleware.OAuth2Auth([]byte(configuration.JWTSecret)))
		{
			protectedApi.POST("/logout", authController.Logout)
			protectedApi.GET("/profile", authController.Profile)
			protectedApi.PUT("/profile/preferences", authController.UpdatePreferences)

			protectedApi.GET("/transactions", transactionController.GetTransactions)
			protectedApi.GET("/transactions/summary", transactionController.GetMonthlySummary)
			protectedApi.GET("/transactions/:id", transactionController.GetTransactionByID)
			protectedApi.POST("/transactions", transactionController.CreateTransaction)
			protectedApi.PUT("/transactions/:id", transactionController.UpdateTransaction)
			protectedApi.DELETE("/transactions/:id", transactionController.DeleteTransaction)

			protectedApi.GET("/goals", goalController.GetGoals)
			protectedApi.GET("/goals/summary", goalController.GetSummary)
			protectedApi.GET("/goals/:id", goalController.GetGoalByID)
			protectedApi.POST("/goals", goalController.CreateGoal)
			protectedApi.PUT("/goals/:id", goalController.UpdateGoal)
			protectedApi.DELETE("/goals/:id", goalController.DeleteGoal)
			protectedApi.POST("/goals/:id/contribute", goalController.Contribute)

			protectedApi.GET("/budgets", budgetController.GetBudgets)
			protectedApi.POST("/budgets", budgetController.CreateBudget)
			protectedApi.PUT("/budgets/:id", budgetController.UpdateBudget)
			protectedApi.DELETE("/budgets/:id", budgetController.DeleteBudget)

			protectedApi.GET("/reminders", reminderController.GetReminders)
			protectedApi.GET("/reminders/counts", reminderController.GetCounts)
			protectedApi.GET("/reminders/:id", reminderController.GetReminderByID)
			protectedApi.POST("/reminders", reminderController.CreateReminder)
			protectedApi.PUT("/reminders/:id", reminderController.UpdateReminder)
			protectedApi.DELETE("/reminders/:id", reminderController.DeleteReminder)

			protectedApi.POST("/migrate", migrationController.Migrate)

			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole("admin"))
			{
				adminApi.GET("/clients", clientController.ListClients)
				adminApi.POST("/clients", clientController.CreateClient)
				adminApi.DELETE("/clients/:id", clientController.DeleteClient)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-finance-api",
	})
}
