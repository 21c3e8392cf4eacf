package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/services"
)

// Users

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.svc.ListMembers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	user, err := h.svc.CreateUser(c.UserContext(), services.NewUser{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
		GroupID:  req.GroupID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.svc.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) SetUserGroup(c *fiber.Ctx) error {
	var req models.SetGroupRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	if err := h.svc.SetUserGroup(ctx, c.Params("id"), req.GroupID); err != nil {
		return fail(c, err)
	}
	user, err := h.svc.GetUser(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	if err := h.svc.ResetPassword(c.UserContext(), c.Params("id"), req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Groups

func (h *Handler) ListGroups(c *fiber.Ctx) error {
	totals, err := h.stats.GroupTotals(c.UserContext(), h.stats.Today())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(totals)
}

func (h *Handler) CreateGroup(c *fiber.Ctx) error {
	var req models.CreateGroupRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	group, err := h.svc.CreateGroup(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *Handler) DeleteGroup(c *fiber.Ctx) error {
	if err := h.svc.DeleteGroup(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Tasks

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.svc.ListTasks(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tasks)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	var req models.CreateTaskRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	task, err := h.svc.CreateTask(c.UserContext(), services.NewTask{
		Title:         req.Title,
		AssignedTo:    req.AssignedTo,
		Kind:          req.Kind,
		Points:        req.Points,
		Unit:          req.Unit,
		PointsPerUnit: req.PointsPerUnit,
		DailyTarget:   req.DailyTarget,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	if err := h.svc.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
