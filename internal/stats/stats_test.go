package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/taskboard/internal/models"
)

func aliceTasks() []models.Task {
	return []models.Task{
		{ID: "t-pray", Title: "Pray", AssignedTo: models.AssignEveryone, Kind: models.KindBinary, Points: 10},
		{ID: "t-read", Title: "Read", AssignedTo: "u-alice", Kind: models.KindQuantity, Unit: "page", PointsPerUnit: 2, DailyTarget: 20},
		{ID: "t-run", Title: "Run", AssignedTo: "u-bob", Kind: models.KindBinary, Points: 5},
	}
}

func TestVisibleTasks(t *testing.T) {
	visible := VisibleTasks(aliceTasks(), "u-alice")
	require.Len(t, visible, 2)
	assert.Equal(t, "t-pray", visible[0].ID)
	assert.Equal(t, "t-read", visible[1].ID)

	assert.Len(t, VisibleTasks(aliceTasks(), "u-carol"), 1)
	assert.Empty(t, VisibleTasks(nil, "u-alice"))
}

func TestDailyAliceScenario(t *testing.T) {
	completions := []models.Completion{
		{UserID: "u-alice", TaskID: "t-pray", Quantity: 1, Points: 10},
		{UserID: "u-alice", TaskID: "t-read", Quantity: 5, Points: 10},
		{UserID: "u-bob", TaskID: "t-run", Quantity: 1, Points: 5},
	}

	st := Daily("u-alice", aliceTasks(), completions)
	assert.Equal(t, 20.0, st.EarnedPoints)
	assert.Equal(t, 50.0, st.MaxPossiblePoints)
	assert.Equal(t, 2, st.TasksDone)
	assert.Equal(t, 2, st.TasksTotal)
	assert.Equal(t, 40, st.PercentComplete)
}

func TestDailyWithoutTasks(t *testing.T) {
	st := Daily("u-alice", nil, []models.Completion{{UserID: "u-alice", TaskID: "gone", Points: 10}})
	assert.Equal(t, 10.0, st.EarnedPoints)
	assert.Equal(t, 0, st.TasksTotal)
	assert.Equal(t, 0, st.PercentComplete)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		earned, max float64
		want        int
	}{
		{0, 0, 0},
		{10, 0, 0},
		{0, 50, 0},
		{20, 50, 40},
		{29, 100, 29},
		{1, 3, 33},
		{2, 3, 66},
		{50, 50, 100},
		{80, 50, 100},
		{-5, 50, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.earned, tt.max), "%v/%v", tt.earned, tt.max)
	}
}

func TestRankLeaderboard(t *testing.T) {
	entries := RankLeaderboard([]LeaderboardEntry{
		{UserID: "c", Points: 10},
		{UserID: "a", Points: 5},
		{UserID: "b", Points: 10},
		{UserID: "d", Points: 0},
	})

	ids := make([]string, 0, len(entries))
	for i, e := range entries {
		ids = append(ids, e.UserID)
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.LessOrEqual(t, e.Points, entries[i-1].Points)
		}
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
}
