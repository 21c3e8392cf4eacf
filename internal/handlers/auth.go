package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/arnold/taskboard/internal/middleware"
	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/services"
)

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	user, err := h.svc.Authenticate(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := middleware.GenerateToken(h.secret, h.tokenTTL, user)
	if err != nil {
		return fail(c, errors.Wrap(err, "generating token"))
	}

	return c.JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}

func (h *Handler) GetMe(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	user, err := h.svc.GetUser(c.UserContext(), sess.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// ChangePassword replaces the caller's password and returns a fresh token,
// since the old one may still carry the must-change flag.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	var req models.ChangePasswordRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	err := h.svc.ChangePassword(c.UserContext(), sess.UserID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Current password is incorrect",
			"fields": fiber.Map{"currentPassword": "current password is incorrect"},
		})
	}
	if err != nil {
		return fail(c, err)
	}

	user, err := h.svc.GetUser(c.UserContext(), sess.UserID)
	if err != nil {
		return fail(c, err)
	}
	token, err := middleware.GenerateToken(h.secret, h.tokenTTL, user)
	if err != nil {
		return fail(c, errors.Wrap(err, "generating token"))
	}

	return c.JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}
