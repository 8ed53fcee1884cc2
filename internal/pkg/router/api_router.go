package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ellinia-dev/ellinia/app/controllers"
	"github.com/ellinia-dev/ellinia/app/repository"
	"github.com/ellinia-dev/ellinia/internal/pkg/database"
	"github.com/ellinia-dev/ellinia/internal/pkg/middleware"
	"github.com/ellinia-dev/ellinia/internal/pkg/session"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize repositories and the vote service
	repository.InitializeFactory(database.GetDB())
	controllers.InitializeVoteController()

	api := app.Group("/api")
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// The vote webhook stays outside the rate limiter: Gtop100 batches
	// deliveries and a throttled pingback would be retried.
	voteGroup := api.Group("/vote")
	voteGroup.Get("/webhook", controllers.HandleVoteWebhookPing)
	voteGroup.Post("/webhook", controllers.HandleVoteWebhook)
	voteGroup.Get("/status", middleware.RequireAPISessionAuth, controllers.HandleVoteStatus)

	// Auth routes carry a limiter matching the original per-route throttles.
	authGroup := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	authGroup.Post("/register", controllers.HandleAuthRegister)
	authGroup.Post("/login", controllers.HandleAuthLogin)
	authGroup.Post("/logout", middleware.RequireAPISessionAuth, controllers.HandleAuthLogout)
	authGroup.Get("/secret-questions", controllers.HandleSecretQuestions)
	authGroup.Get("/secret-question/:username", controllers.HandleSecretQuestionForUser)
	authGroup.Post("/verify-security-answer", controllers.HandleVerifySecurityAnswer)
	authGroup.Post("/forgot-password", controllers.HandleForgotPassword)

	// Public announcements
	api.Get("/announcements", controllers.HandleAnnouncements)

	// Admin dashboard
	adminGroup := api.Group("/admin", middleware.RequireAPIAdmin)
	adminGroup.Get("/users", controllers.HandleAdminUsers)
	adminGroup.Get("/users/:id/inventory", controllers.HandleAdminUserInventory)
	adminGroup.Post("/users/update-nx", controllers.HandleAdminUpdateNX)
	adminGroup.Post("/users/toggle-ban", controllers.HandleAdminToggleBan)
	adminGroup.Post("/characters/update-meso", controllers.HandleAdminUpdateMeso)
	adminGroup.Post("/announcements", controllers.HandleAdminAnnouncementCreate)
	adminGroup.Delete("/announcements/:id", controllers.HandleAdminAnnouncementDelete)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
