package routes

import (
	"qraksha/internal/adapters/cache"
	"qraksha/internal/adapters/http/handlers"
	"qraksha/internal/adapters/http/middleware"
	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/config"
	"qraksha/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, profileCache cache.Cache) {
	// Initialize repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	alertRepo := repositories.NewAlertRepository(db)

	// Initialize services
	authService := services.NewAuthService(adminRepo, employeeRepo, cfg)
	employeeService := services.NewEmployeeService(employeeRepo, profileCache, cfg)
	directoryService := services.NewDirectoryService(employeeRepo, profileCache, cfg)
	notifier := services.NewNotificationService(cfg.Notify)
	alertService := services.NewAlertService(alertRepo, employeeRepo, notifier)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, profileCache, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(directoryService, alertService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, alertService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	requireAuth := middleware.AuthMiddleware(authService)
	authLimiter := middleware.AuthRateLimiter(cfg.RateLimit.AuthMax)

	setupAdminRoutes(api.Group("/admin"), adminHandler, authHandler, requireAuth, authLimiter)
	setupEmployeeRoutes(api.Group("/employees"), employeeHandler, authHandler, requireAuth, authLimiter, cfg)
}

// setupAdminRoutes configures the admin dashboard routes
func setupAdminRoutes(
	router fiber.Router,
	adminHandler *handlers.AdminHandler,
	authHandler *handlers.AuthHandler,
	requireAuth fiber.Handler,
	authLimiter fiber.Handler,
) {
	// Public
	router.Post("/login", authLimiter, authHandler.AdminLogin)

	// Admin only
	admin := router.Group("", requireAuth, middleware.AdminOnly(), middleware.NoCacheHeaders())
	admin.Get("/employees", adminHandler.ListEmployees)
	admin.Get("/employee/:id", adminHandler.GetEmployee)
	admin.Delete("/employee/:id", adminHandler.DeleteEmployee)
	admin.Get("/sos-alerts", adminHandler.ListAlerts)
	admin.Put("/sos-alerts/:id/resolve", adminHandler.ResolveAlert)
}

// setupEmployeeRoutes configures employee routes. Static paths go before /:id.
func setupEmployeeRoutes(
	router fiber.Router,
	employeeHandler *handlers.EmployeeHandler,
	authHandler *handlers.AuthHandler,
	requireAuth fiber.Handler,
	authLimiter fiber.Handler,
	cfg *config.Config,
) {
	router.Post("/register", authLimiter, employeeHandler.Register)
	router.Post("/login", authLimiter, authHandler.EmployeeLogin)

	self := []fiber.Handler{requireAuth, middleware.EmployeeOnly(), middleware.NoCacheHeaders()}
	router.Get("/me", append(self, employeeHandler.Me)...)
	router.Put("/me", append(self, employeeHandler.UpdateMe)...)
	router.Post("/sos", append(self, employeeHandler.TriggerSOS)...)
	router.Get("/sos", append(self, employeeHandler.MyAlerts)...)

	// Public, opened by QR scans
	profileCache := middleware.PrivateCacheHeaders(cfg.Cache.TTL())
	router.Get("/:id/qr.png", profileCache, employeeHandler.QRCode)
	router.Get("/:id", profileCache, employeeHandler.PublicProfile)
}
