// Package stats turns tasks and completions into the numbers shown on the
// dashboards: daily progress, trailing series, group totals and leaderboards.
package stats

import (
	"math"
	"sort"

	"github.com/arnold/taskboard/internal/models"
)

type DailyStats struct {
	Date              string  `json:"date,omitempty"`
	EarnedPoints      float64 `json:"earnedPoints"`
	MaxPossiblePoints float64 `json:"maxPossiblePoints"`
	TasksDone         int     `json:"tasksDone"`
	TasksTotal        int     `json:"tasksTotal"`
	PercentComplete   int     `json:"percentComplete"`
}

type DayPoints struct {
	Date   string  `json:"date"`
	Points float64 `json:"points"`
}

type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	GroupID         *string `json:"groupId"`
	GroupName       string  `json:"groupName"`
	Points          float64 `json:"points"`
	PercentComplete int     `json:"percentComplete"`
}

// AgendaItem is one row of a user's task list for a day.
type AgendaItem struct {
	Task       models.Task        `json:"task"`
	MaxPoints  float64            `json:"maxPoints"`
	Done       bool               `json:"done"`
	Completion *models.Completion `json:"completion"`
}

type MemberPoints struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

type TaskCompletions struct {
	TaskID      string `json:"taskId"`
	Title       string `json:"title"`
	Completions int    `json:"completions"`
}

type Overview struct {
	Date            string            `json:"date"`
	TotalPoints     float64           `json:"totalPoints"`
	Completions     int               `json:"completions"`
	Members         int               `json:"members"`
	Tasks           int               `json:"tasks"`
	Groups          int               `json:"groups"`
	TaskCompletions []TaskCompletions `json:"taskCompletions"`
}

// VisibleTasks keeps the tasks assigned to everyone or to userID.
func VisibleTasks(tasks []models.Task, userID string) []models.Task {
	visible := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].VisibleTo(userID) {
			visible = append(visible, tasks[i])
		}
	}
	return visible
}

// Percent is floor(earned/max*100) bounded to [0, 100]; 0 when max is 0.
func Percent(earned, max float64) int {
	if max <= 0 {
		return 0
	}
	pct := math.Floor(earned * 100 / max)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

// Daily computes a user's progress for one day. completions must already be
// limited to that day; rows of other users are ignored.
func Daily(userID string, tasks []models.Task, completions []models.Completion) DailyStats {
	var st DailyStats

	done := make(map[string]bool)
	for _, c := range completions {
		if c.UserID != userID {
			continue
		}
		st.EarnedPoints += c.Points
		done[c.TaskID] = true
	}

	for _, t := range VisibleTasks(tasks, userID) {
		st.TasksTotal++
		st.MaxPossiblePoints += t.MaxPoints()
		if done[t.ID] {
			st.TasksDone++
		}
	}

	st.PercentComplete = Percent(st.EarnedPoints, st.MaxPossiblePoints)
	return st
}

// RankLeaderboard orders entries by points, highest first, with ties going
// to the lower user ID, and numbers them from 1.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
