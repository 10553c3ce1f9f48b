package api

import (
	domain "github.com/example/event-planner/domain/user"
	"github.com/example/event-planner/modules/audit"
	"github.com/example/event-planner/modules/auth"
	"github.com/example/event-planner/modules/category"
	"github.com/example/event-planner/modules/event"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Ports are the module boundaries the HTTP layer drives.
type Ports struct {
	Auth       auth.AuthPort
	Categories category.CategoryPort
	Events     event.EventPort
	Activity   audit.ActivityPort
}

// RouterOptions tune the HTTP surface.
type RouterOptions struct {
	// DisableRequestLog turns off the access log middleware.
	DisableRequestLog bool
}

// NewRouter builds the Fiber app with every route mounted.
func NewRouter(ports Ports, opts RouterOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New())

	h := NewHandlers(ports)
	guard := RequireAuth(ports.Auth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// Public auth routes
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/refresh", h.Refresh)

	// Categories are readable and writable without a token.
	app.Get("/categories", h.ListCategories)
	app.Post("/categories", h.CreateCategory)
	app.Get("/categories/:id", h.GetCategory)

	app.Get("/me", guard, h.Me)

	events := app.Group("/events", guard)
	events.Get("/", h.ListEvents)
	events.Post("/", h.CreateEvent)
	events.Get("/:id", h.GetEvent)
	events.Put("/:id", h.UpdateEvent)
	events.Delete("/:id", h.DeleteEvent)

	admin := app.Group("/admin", guard, RequireRole(domain.RoleAdmin))
	admin.Patch("/users/:id", h.UpdateUser)
	admin.Get("/activity", h.Activity)

	return app
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
