package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/testutil"
)

func TestCreateTask(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)

	binary, err := svc.CreateTask(ctx, NewTask{Title: "Pray", Kind: models.KindBinary, Points: 10, Unit: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignEveryone, binary.AssignedTo)
	assert.Equal(t, 10.0, binary.Points)
	assert.Empty(t, binary.Unit)

	quantity, err := svc.CreateTask(ctx, NewTask{
		Title: "Read", AssignedTo: alice.ID, Kind: models.KindQuantity,
		Points: 99, Unit: "page", PointsPerUnit: 2, DailyTarget: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, quantity.AssignedTo)
	assert.Equal(t, 0.0, quantity.Points)
	assert.Equal(t, 40.0, quantity.MaxPoints())

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		nt    NewTask
		field string
	}{
		{name: "no title", nt: NewTask{Kind: models.KindBinary, Points: 1}, field: "title"},
		{name: "unknown kind", nt: NewTask{Title: "x", Kind: "streak"}, field: "kind"},
		{name: "binary zero points", nt: NewTask{Title: "x", Kind: models.KindBinary}, field: "points"},
		{name: "quantity zero rate", nt: NewTask{Title: "x", Kind: models.KindQuantity, DailyTarget: 5}, field: "pointsPerUnit"},
		{name: "quantity negative target", nt: NewTask{Title: "x", Kind: models.KindQuantity, PointsPerUnit: 1, DailyTarget: -1}, field: "dailyTarget"},
		{name: "unknown assignee", nt: NewTask{Title: "x", AssignedTo: "ghost", Kind: models.KindBinary, Points: 1}, field: "assignedTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, tt.nt)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	pray := testutil.CreateBinaryTask(t, db, "Pray", models.AssignEveryone, 10)
	read := testutil.CreateQuantityTask(t, db, "Read", models.AssignEveryone, "page", 2, 20)
	testutil.CreateCompletion(t, db, alice.ID, pray.ID, "2024-05-09", 1, 10)
	testutil.CreateCompletion(t, db, alice.ID, pray.ID, "2024-05-10", 1, 10)
	testutil.CreateCompletion(t, db, alice.ID, read.ID, "2024-05-10", 5, 10)

	require.NoError(t, svc.DeleteTask(ctx, pray.ID))

	assert.EqualValues(t, 0, testutil.CountCompletions(t, db, "task_id = ?", pray.ID))
	assert.EqualValues(t, 1, testutil.CountCompletions(t, db, "task_id = ?", read.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, pray.ID), ErrTaskNotFound)
}
