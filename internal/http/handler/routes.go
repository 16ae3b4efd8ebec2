package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"cubebridge/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.BridgeService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1")
	api.Post("/execute", ExecuteCommand(svc))
	api.Post("/memory-thread", LogMemoryThread(svc))
	api.Get("/memory-threads/:filename/url", MemoryThreadArchiveURL(svc))
	api.Get("/invocations", ListInvocations(svc))
	api.Get("/invocations/:id", GetInvocation(svc))
}
