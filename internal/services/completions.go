package services

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnold/taskboard/internal/models"
)

var completionKey = []clause.Column{{Name: "user_id"}, {Name: "task_id"}, {Name: "completed_on"}}

// assignedTask loads a task the user may complete and checks its kind.
func assignedTask(tx *gorm.DB, userID, taskID, kind string) (models.Task, error) {
	if _, err := findUser(tx, userID); err != nil {
		return models.Task{}, err
	}
	task, err := findTask(tx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if !task.VisibleTo(userID) {
		return models.Task{}, ErrTaskNotAssigned
	}
	if task.Kind != kind {
		return models.Task{}, ErrWrongTaskKind
	}
	return task, nil
}

// RecordBinaryCompletion marks a binary task done for today. A second call on
// the same day changes nothing and reports recorded=false.
func (s *Service) RecordBinaryCompletion(ctx context.Context, userID, taskID string) (recorded bool, err error) {
	today := s.clock.Today()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := assignedTask(tx, userID, taskID, models.KindBinary)
		if err != nil {
			return err
		}

		completion := models.Completion{
			UserID:   userID,
			TaskID:   taskID,
			Date:     today,
			Quantity: 1,
			Points:   task.Points,
		}
		res := tx.Clauses(clause.OnConflict{Columns: completionKey, DoNothing: true}).Create(&completion)
		if res.Error != nil {
			return errors.Wrap(res.Error, "recording completion")
		}
		recorded = res.RowsAffected > 0
		return nil
	})
	return recorded, err
}

// RecordQuantityCompletion sets today's progress on a quantity task,
// replacing any earlier submission for the same day.
func (s *Service) RecordQuantityCompletion(ctx context.Context, userID, taskID string, quantity float64) (models.Completion, error) {
	today := s.clock.Today()

	var completion models.Completion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := assignedTask(tx, userID, taskID, models.KindQuantity)
		if err != nil {
			return err
		}
		if !(quantity > 0) || quantity > task.DailyTarget {
			return NewValidationError(ErrQuantityOutOfRange,
				FieldError{Field: "quantity", Error: ErrQuantityOutOfRange.Error()})
		}

		row := models.Completion{
			UserID:   userID,
			TaskID:   taskID,
			Date:     today,
			Quantity: quantity,
			Points:   quantity * task.PointsPerUnit,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   completionKey,
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "points", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return errors.Wrap(err, "recording completion")
		}

		// on conflict the surviving row keeps its original ID
		if err := tx.Where("user_id = ? AND task_id = ? AND completed_on = ?", userID, taskID, today).
			First(&completion).Error; err != nil {
			return errors.Wrap(err, "reloading completion")
		}
		return nil
	})
	if err != nil {
		return models.Completion{}, err
	}
	return completion, nil
}

// UndoCompletion deletes today's completion of the task by the user, if any.
func (s *Service) UndoCompletion(ctx context.Context, userID, taskID string) error {
	today := s.clock.Today()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND task_id = ? AND completed_on = ?", userID, taskID, today).
			Delete(&models.Completion{}).Error; err != nil {
			return errors.Wrap(err, "undoing completion")
		}
		return nil
	})
}
