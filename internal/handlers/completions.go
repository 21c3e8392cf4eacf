package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard/internal/middleware"
	"github.com/arnold/taskboard/internal/models"
)

// CompleteTask marks a binary task done for today. Repeating it is harmless.
func (h *Handler) CompleteTask(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	recorded, err := h.svc.RecordBinaryCompletion(c.UserContext(), sess.UserID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	status := fiber.StatusOK
	if recorded {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"recorded": recorded,
		"date":     h.svc.Today(),
	})
}

// RecordProgress sets today's quantity for a quantity task.
func (h *Handler) RecordProgress(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	var req models.ProgressRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	completion, err := h.svc.RecordQuantityCompletion(c.UserContext(), sess.UserID, c.Params("id"), req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(completion)
}

func (h *Handler) UndoCompletion(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	if err := h.svc.UndoCompletion(c.UserContext(), sess.UserID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
