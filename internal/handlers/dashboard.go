package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard/internal/middleware"
	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/stats"
)

type GroupView struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	Members []stats.MemberPoints `json:"members"`
}

type DashboardResponse struct {
	Date        string                   `json:"date"`
	Stats       stats.DailyStats         `json:"stats"`
	Series      []stats.DayPoints        `json:"series"`
	Agenda      []stats.AgendaItem       `json:"agenda"`
	Group       *GroupView               `json:"group"`
	Leaderboard []stats.LeaderboardEntry `json:"leaderboard"`
}

type OverviewResponse struct {
	stats.Overview
	Series      []stats.DayPoints        `json:"series"`
	GroupTotals []models.GroupSummary    `json:"groupTotals"`
	Leaderboard []stats.LeaderboardEntry `json:"leaderboard"`
}

// Dashboard returns everything the member home screen shows for today.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sess := middleware.CurrentSession(c)
	today := h.stats.Today()

	user, err := h.svc.GetUser(ctx, sess.UserID)
	if err != nil {
		return fail(c, err)
	}

	resp := DashboardResponse{Date: today}
	if resp.Stats, err = h.stats.DailyStats(ctx, user.ID, today); err != nil {
		return fail(c, err)
	}
	if resp.Series, err = h.stats.TimeSeries(ctx, &user.ID, c.QueryInt("days", stats.DefaultWindow)); err != nil {
		return fail(c, err)
	}
	if resp.Agenda, err = h.stats.Agenda(ctx, user.ID, today); err != nil {
		return fail(c, err)
	}
	if resp.Leaderboard, err = h.stats.Leaderboard(ctx, today); err != nil {
		return fail(c, err)
	}

	if user.GroupID != nil {
		group, err := h.svc.GetGroup(ctx, *user.GroupID)
		if err != nil {
			return fail(c, err)
		}
		members, err := h.stats.GroupMembers(ctx, group.ID, today)
		if err != nil {
			return fail(c, err)
		}
		resp.Group = &GroupView{ID: group.ID, Name: group.Name, Members: members}
	}

	return c.JSON(resp)
}

func (h *Handler) Leaderboard(c *fiber.Ctx) error {
	board, err := h.stats.Leaderboard(c.UserContext(), h.stats.Today())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(board)
}

// AdminOverview returns the admin home screen: today's totals, the global
// series, group totals and the leaderboard.
func (h *Handler) AdminOverview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	today := h.stats.Today()

	var (
		resp OverviewResponse
		err  error
	)
	if resp.Overview, err = h.stats.Overview(ctx, today); err != nil {
		return fail(c, err)
	}
	if resp.Series, err = h.stats.TimeSeries(ctx, nil, c.QueryInt("days", stats.DefaultWindow)); err != nil {
		return fail(c, err)
	}
	if resp.GroupTotals, err = h.stats.GroupTotals(ctx, today); err != nil {
		return fail(c, err)
	}
	if resp.Leaderboard, err = h.stats.Leaderboard(ctx, today); err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
