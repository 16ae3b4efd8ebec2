package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cubebridge/internal/runner"
	"cubebridge/internal/service"
)

type executeRequest struct {
	Command string `json:"command"`
}

type executeResponse struct {
	Output       string `json:"output"`
	InvocationID string `json:"invocation_id,omitempty"`
}

type memoryThreadRequest struct {
	Message string `json:"message"`
}

type archiveURLResponse struct {
	URL string `json:"url"`
}

// ExecuteCommand handles POST /api/v1/execute: runs the external binary with
// the given command string and returns its stdout. A non-zero exit maps to 422
// with the captured stderr as the message; a spawn failure maps to 502 with
// the OS error text.
func ExecuteCommand(svc service.BridgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req executeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		inv, err := svc.Execute(c.UserContext(), req.Command)
		if err != nil {
			var exitErr *runner.ExitError
			if errors.As(err, &exitErr) {
				return writeError(c, fiber.StatusUnprocessableEntity, "COMMAND_FAILED", exitErr.Stderr)
			}
			return writeError(c, fiber.StatusBadGateway, "SPAWN_FAILED", err.Error())
		}
		return c.JSON(executeResponse{Output: inv.Stdout, InvocationID: inv.ID})
	}
}

// LogMemoryThread handles POST /api/v1/memory-thread: writes a timestamped
// memory-thread log file and returns the entry metadata.
func LogMemoryThread(svc service.BridgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req memoryThreadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		entry, err := svc.LogMemoryThread(c.UserContext(), req.Message)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "LOG_WRITE_FAILED", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// ListInvocations handles GET /api/v1/invocations with limit & offset.
func ListInvocations(svc service.BridgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.History(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetInvocation handles GET /api/v1/invocations/:id.
func GetInvocation(svc service.BridgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		inv, err := svc.Invocation(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "invocation not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(inv)
	}
}

// MemoryThreadArchiveURL handles GET /api/v1/memory-threads/:filename/url and
// returns a pre-signed download URL for the archived log file.
func MemoryThreadArchiveURL(svc service.BridgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := c.Params("filename")
		// Log filenames are generated by the service; anything else is rejected
		// to keep archive keys well-formed.
		if !strings.HasPrefix(filename, "memory-thread-") || !strings.HasSuffix(filename, ".log") {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid filename format")
		}

		u, err := svc.ArchiveURL(c.UserContext(), filename)
		if err != nil {
			if errors.Is(err, service.ErrArchiveDisabled) {
				return writeError(c, fiber.StatusNotImplemented, "ARCHIVE_DISABLED", "archive is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(archiveURLResponse{URL: u})
	}
}

// HealthCheck returns a handler that checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
