package api

import (
	"gastos-server/internal/api/handlers"
	"gastos-server/pkg/auth"
	"gastos-server/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	expenseHandler *handlers.ExpenseHandler,
	recurringHandler *handlers.RecurringHandler,
	dashboardHandler *handlers.DashboardHandler,
	jwtManager *auth.JWTManager,
	uploadDir string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Uploaded invoice files
	app.Static("/uploads", uploadDir)

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	expenses := protected.Group("/expenses")
	expenses.Post("", expenseHandler.Create)
	expenses.Get("", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.Get)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)
	expenses.Post("/:id/invoice", expenseHandler.AttachInvoice)

	protected.Get("/accounts", expenseHandler.Accounts)

	recurring := protected.Group("/recurring")
	recurring.Post("", recurringHandler.Create)
	recurring.Get("", recurringHandler.List)
	recurring.Put("/:id", recurringHandler.Update)
	recurring.Delete("/:id", recurringHandler.Deactivate)
	recurring.Post("/process", recurringHandler.Process)

	protected.Get("/dashboard", dashboardHandler.Summary)
	protected.Get("/reports/monthly", dashboardHandler.MonthlyReport)

	return app
}
