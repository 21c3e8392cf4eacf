package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard/internal/middleware"
	"github.com/arnold/taskboard/internal/stats"
)

// MyHistory returns the caller's completions, newest first.
func (h *Handler) MyHistory(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	return h.history(c, &sess.UserID)
}

// Activity returns everyone's completions, newest first.
func (h *Handler) Activity(c *fiber.Ctx) error {
	return h.history(c, nil)
}

func (h *Handler) history(c *fiber.Ctx, userID *string) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", stats.DefaultPageSize)

	result, err := h.stats.History(c.UserContext(), userID, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}
