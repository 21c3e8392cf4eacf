package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/testutil"
)

func TestRecordBinaryCompletionIsIdempotent(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	pray := testutil.CreateBinaryTask(t, db, "Pray", models.AssignEveryone, 10)

	recorded, err := svc.RecordBinaryCompletion(ctx, alice.ID, pray.ID)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = svc.RecordBinaryCompletion(ctx, alice.ID, pray.ID)
	require.NoError(t, err)
	assert.False(t, recorded)

	var rows []models.Completion
	require.NoError(t, db.Where("user_id = ?", alice.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-05-10", rows[0].Date)
	assert.Equal(t, 10.0, rows[0].Points)
	assert.Equal(t, 1.0, rows[0].Quantity)
}

func TestRecordBinaryCompletionConcurrent(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	pray := testutil.CreateBinaryTask(t, db, "Pray", models.AssignEveryone, 10)

	var (
		wg       sync.WaitGroup
		recorded int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.RecordBinaryCompletion(ctx, alice.ID, pray.ID)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&recorded, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, recorded)
	assert.EqualValues(t, 1, testutil.CountCompletions(t, db, "user_id = ? AND task_id = ?", alice.ID, pray.ID))
}

func TestCompletionDayIsUnique(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	pray := testutil.CreateBinaryTask(t, db, "Pray", models.AssignEveryone, 10)

	recorded, err := svc.RecordBinaryCompletion(ctx, alice.ID, pray.ID)
	require.NoError(t, err)
	require.True(t, recorded)

	// a plain insert skips the ON CONFLICT clause and hits the index itself
	dup := models.Completion{UserID: alice.ID, TaskID: pray.ID, Date: "2024-05-10", Quantity: 1, Points: 10}
	assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)

	other := models.Completion{UserID: alice.ID, TaskID: pray.ID, Date: "2024-05-09", Quantity: 1, Points: 10}
	assert.NoError(t, db.Create(&other).Error)
	assert.EqualValues(t, 2, testutil.CountCompletions(t, db, "user_id = ? AND task_id = ?", alice.ID, pray.ID))
}

func TestRecordQuantityCompletionReplaces(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	read := testutil.CreateQuantityTask(t, db, "Read", models.AssignEveryone, "page", 2, 20)

	first, err := svc.RecordQuantityCompletion(ctx, alice.ID, read.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, first.Quantity)
	assert.Equal(t, 10.0, first.Points)

	second, err := svc.RecordQuantityCompletion(ctx, alice.ID, read.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 12.0, second.Quantity)
	assert.Equal(t, 24.0, second.Points)

	// the daily target itself is allowed
	full, err := svc.RecordQuantityCompletion(ctx, alice.ID, read.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 40.0, full.Points)

	assert.EqualValues(t, 1, testutil.CountCompletions(t, db, "user_id = ?", alice.ID))
}

func TestRecordQuantityCompletionOutOfRange(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	read := testutil.CreateQuantityTask(t, db, "Read", models.AssignEveryone, "page", 2, 20)

	for _, qty := range []float64{0, -3, 20.5, 100} {
		_, err := svc.RecordQuantityCompletion(ctx, alice.ID, read.ID, qty)
		assert.ErrorIs(t, err, ErrQuantityOutOfRange, "quantity %v", qty)
		assert.True(t, IsValidation(err))
	}
	assert.EqualValues(t, 0, testutil.CountCompletions(t, db, "user_id = ?", alice.ID))
}

func TestRecordCompletionChecksTask(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	bob := testutil.CreateUser(t, db, "Bob", "bob", "secret1", nil)
	pray := testutil.CreateBinaryTask(t, db, "Pray", models.AssignEveryone, 10)
	read := testutil.CreateQuantityTask(t, db, "Read", models.AssignEveryone, "page", 2, 20)
	bobsRun := testutil.CreateBinaryTask(t, db, "Run", bob.ID, 5)

	_, err := svc.RecordBinaryCompletion(ctx, alice.ID, read.ID)
	assert.ErrorIs(t, err, ErrWrongTaskKind)

	_, err = svc.RecordQuantityCompletion(ctx, alice.ID, pray.ID, 1)
	assert.ErrorIs(t, err, ErrWrongTaskKind)

	_, err = svc.RecordBinaryCompletion(ctx, alice.ID, bobsRun.ID)
	assert.ErrorIs(t, err, ErrTaskNotAssigned)

	_, err = svc.RecordBinaryCompletion(ctx, alice.ID, "nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.RecordBinaryCompletion(ctx, "nope", pray.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	recorded, err := svc.RecordBinaryCompletion(ctx, bob.ID, bobsRun.ID)
	require.NoError(t, err)
	assert.True(t, recorded)
}

func TestUndoCompletion(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", nil)
	pray := testutil.CreateBinaryTask(t, db, "Pray", models.AssignEveryone, 10)
	testutil.CreateCompletion(t, db, alice.ID, pray.ID, "2024-05-09", 1, 10)

	_, err := svc.RecordBinaryCompletion(ctx, alice.ID, pray.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UndoCompletion(ctx, alice.ID, pray.ID))
	assert.EqualValues(t, 0, testutil.CountCompletions(t, db, "completed_on = ?", "2024-05-10"))
	assert.EqualValues(t, 1, testutil.CountCompletions(t, db, "completed_on = ?", "2024-05-09"))

	// nothing left to undo
	require.NoError(t, svc.UndoCompletion(ctx, alice.ID, pray.ID))
}
