package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/arnold/taskboard/internal/config"
	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/services"
	"github.com/arnold/taskboard/internal/stats"
	"github.com/arnold/taskboard/internal/validation"
)

// Handler serves the JSON API on top of the domain service and the stats
// engine.
type Handler struct {
	svc      *services.Service
	stats    *stats.Engine
	validate *validation.Validator
	secret   string
	tokenTTL time.Duration
}

func New(svc *services.Service, engine *stats.Engine, cfg *config.Config) *Handler {
	return &Handler{
		svc:      svc,
		stats:    engine,
		validate: validation.New(),
		secret:   cfg.JWTSecret,
		tokenTTL: cfg.TokenTTL,
	}
}

// SessionUser loads the account behind an authenticated request.
func (h *Handler) SessionUser(ctx context.Context, id string) (models.User, error) {
	return h.svc.GetUser(ctx, id)
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// parse decodes and validates the request body into req. When it returns
// false the error response has already been written.
func (h *Handler) parse(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if fields := h.validate.Struct(req); fields != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}
	return true, nil
}

func fieldMap(flds []services.FieldError) map[string]string {
	m := make(map[string]string, len(flds))
	for _, f := range flds {
		m[f.Field] = f.Error
	}
	return m
}

// fail maps a service error onto an HTTP response.
func fail(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrLoginTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  services.ErrLoginTaken.Error(),
			"fields": fiber.Map{"login": services.ErrLoginTaken.Error()},
		})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  verr.Error(),
			"fields": fieldMap(verr.Fields),
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrProtectedUser),
		errors.Is(err, services.ErrTaskNotAssigned):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrWrongTaskKind),
		errors.Is(err, stats.ErrWindowTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.Errorf("%s %s: %+v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
