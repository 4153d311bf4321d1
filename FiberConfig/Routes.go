package FiberConfig

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"AgroLens/AI"
	"AgroLens/Controllers"
	"AgroLens/Outbreak"
	"AgroLens/Tasks"
	"AgroLens/Weather"
	"AgroLens/middleware"
)

// Deps are the shared components built once in main.
type Deps struct {
	DB         *gorm.DB
	Secret     []byte
	Advisor    AI.Advisor
	Forecaster Weather.Forecaster
	Notifier   *Outbreak.Notifier
	Generator  *Tasks.Generator
}

// NewApp builds the Fiber app with all routes registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowCredentials: true}))
	app.Use(compress.New())
	app.Use(middleware.Logger())

	auth := &middleware.Auth{DB: deps.DB, Secret: deps.Secret}

	// Initialize handlers
	authController := Controllers.NewAuthController(deps.DB, deps.Secret)
	profileController := Controllers.NewProfileController(deps.DB)
	scanController := Controllers.NewScanController(deps.DB, deps.Notifier)
	notificationController := Controllers.NewNotificationController(deps.DB)
	taskController := Controllers.NewTaskController(deps.DB, deps.Generator)
	weatherController := Controllers.NewWeatherController(deps.Forecaster)
	guideController := Controllers.NewGuideController(deps.Advisor)

	api := app.Group("/api")

	// Public auth routes
	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)

	// Everything below requires a logged-in farmer
	verified := api.Group("/", auth.Verify(1))
	verified.Get("/user", authController.CurrentUser)

	verified.Patch("/profile/location", profileController.UpdateLocation)
	verified.Patch("/profile/crop", profileController.UpdateCrop)
	verified.Post("/profile/fcm-token", profileController.UpdateFCMToken)

	verified.Post("/scans", scanController.ReportScan)
	verified.Get("/scans", scanController.GetScans)

	verified.Get("/notifications", notificationController.GetNotifications)
	verified.Patch("/notifications/:id/read", notificationController.MarkRead)

	verified.Post("/tasks/generate", taskController.GenerateTimeline)
	verified.Get("/tasks", taskController.GetTasks)
	verified.Patch("/tasks/:id/toggle", taskController.ToggleTask)
	verified.Delete("/tasks/:id", taskController.DeleteTask)
	verified.Delete("/tasks", taskController.DeleteAllTasks)

	verified.Get("/weather", weatherController.GetForecast)
	verified.Get("/guide", guideController.GetGuide)

	// Serve normalized scan photos
	app.Static("/ScanImages", "./ScanImages", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	return app
}
