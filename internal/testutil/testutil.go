// Package testutil builds throwaway stores and fixtures for tests.
package testutil

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/database"
	"github.com/arnold/taskboard/internal/models"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// OpenDB returns a migrated in-memory SQLite store private to the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.Open(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FixedClock pins "today" to the given YYYY-MM-DD date in UTC.
func FixedClock(t *testing.T, date string) models.Clock {
	t.Helper()

	day, err := time.Parse(models.DateLayout, date)
	require.NoError(t, err)
	noon := day.Add(12 * time.Hour)
	return models.Clock{Now: func() time.Time { return noon }, Location: time.UTC}
}

func hash(t *testing.T, pwd string) string {
	t.Helper()

	h, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func CreateUser(t *testing.T, db *gorm.DB, name, login, pwd string, groupID *string) models.User {
	t.Helper()

	usr := models.User{
		Name:         name,
		Login:        login,
		PasswordHash: hash(t, pwd),
		Role:         models.RoleMember,
		GroupID:      groupID,
	}
	require.NoError(t, db.Create(&usr).Error)
	return usr
}

func CreateAdmin(t *testing.T, db *gorm.DB, login, pwd string) models.User {
	t.Helper()

	usr := models.User{
		Name:         "Administrator",
		Login:        login,
		PasswordHash: hash(t, pwd),
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(&usr).Error)
	return usr
}

func CreateGroup(t *testing.T, db *gorm.DB, name string) models.Group {
	t.Helper()

	group := models.Group{Name: name}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func CreateBinaryTask(t *testing.T, db *gorm.DB, title, assignedTo string, points float64) models.Task {
	t.Helper()

	task := models.Task{Title: title, AssignedTo: assignedTo, Kind: models.KindBinary, Points: points}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func CreateQuantityTask(t *testing.T, db *gorm.DB, title, assignedTo, unit string, perUnit, target float64) models.Task {
	t.Helper()

	task := models.Task{
		Title:         title,
		AssignedTo:    assignedTo,
		Kind:          models.KindQuantity,
		Unit:          unit,
		PointsPerUnit: perUnit,
		DailyTarget:   target,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func CreateCompletion(t *testing.T, db *gorm.DB, userID, taskID, date string, quantity, points float64) models.Completion {
	t.Helper()

	c := models.Completion{UserID: userID, TaskID: taskID, Date: date, Quantity: quantity, Points: points}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func CountCompletions(t *testing.T, db *gorm.DB, where string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Completion{}).Where(where, args...).Count(&n).Error)
	return n
}

func StrPtr(s string) *string { return &s }
