package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard/internal/handlers"
	"github.com/arnold/taskboard/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Handler, secret string) {
	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", h.Login)

	protected := api.Group("/", middleware.Protected(secret, h.SessionUser))

	// reachable while a password change is pending
	protected.Get("/me", h.GetMe)
	protected.Put("/me/password", h.ChangePassword)

	ready := protected.Group("/", middleware.PasswordChanged())

	me := ready.Group("/me")
	me.Get("/dashboard", h.Dashboard)
	me.Post("/tasks/:id/complete", h.CompleteTask)
	me.Put("/tasks/:id/progress", h.RecordProgress)
	me.Delete("/tasks/:id/completion", h.UndoCompletion)
	me.Get("/history", h.MyHistory)

	ready.Get("/leaderboard", h.Leaderboard)

	admin := ready.Group("/admin", middleware.AdminOnly())
	admin.Get("/overview", h.AdminOverview)
	admin.Get("/activity", h.Activity)

	admin.Get("/users", h.ListUsers)
	admin.Post("/users", h.CreateUser)
	admin.Delete("/users/:id", h.DeleteUser)
	admin.Put("/users/:id/group", h.SetUserGroup)
	admin.Put("/users/:id/password", h.ResetPassword)

	admin.Get("/groups", h.ListGroups)
	admin.Post("/groups", h.CreateGroup)
	admin.Delete("/groups/:id", h.DeleteGroup)

	admin.Get("/tasks", h.ListTasks)
	admin.Post("/tasks", h.CreateTask)
	admin.Delete("/tasks/:id", h.DeleteTask)
}
