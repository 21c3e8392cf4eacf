package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

// NewTask describes a task to assign. Points applies to binary tasks;
// Unit, PointsPerUnit and DailyTarget apply to quantity tasks.
type NewTask struct {
	Title         string
	AssignedTo    string
	Kind          string
	Points        float64
	Unit          string
	PointsPerUnit float64
	DailyTarget   float64
}

func (nt NewTask) validate() (models.Task, error) {
	task := models.Task{
		Title:      strings.TrimSpace(nt.Title),
		AssignedTo: strings.TrimSpace(nt.AssignedTo),
		Kind:       nt.Kind,
	}
	if task.AssignedTo == "" {
		task.AssignedTo = models.AssignEveryone
	}

	var flds []FieldError
	if task.Title == "" {
		flds = append(flds, FieldError{Field: "title", Error: "this field is required"})
	}

	switch nt.Kind {
	case models.KindBinary:
		if !(nt.Points > 0) {
			flds = append(flds, FieldError{Field: "points", Error: "points must be greater than 0"})
		}
		task.Points = nt.Points
	case models.KindQuantity:
		if !(nt.PointsPerUnit > 0) {
			flds = append(flds, FieldError{Field: "pointsPerUnit", Error: "points per unit must be greater than 0"})
		}
		if !(nt.DailyTarget > 0) {
			flds = append(flds, FieldError{Field: "dailyTarget", Error: "daily target must be greater than 0"})
		}
		task.Unit = strings.TrimSpace(nt.Unit)
		task.PointsPerUnit = nt.PointsPerUnit
		task.DailyTarget = nt.DailyTarget
	default:
		flds = append(flds, FieldError{Field: "kind", Error: "kind must be binary or quantity"})
	}

	if len(flds) > 0 {
		return models.Task{}, NewValidationError(errors.New("invalid task"), flds...)
	}
	return task, nil
}

// CreateTask assigns a task to everyone or to one member.
func (s *Service) CreateTask(ctx context.Context, nt NewTask) (models.Task, error) {
	task, err := nt.validate()
	if err != nil {
		return models.Task{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if task.AssignedTo != models.AssignEveryone {
			if _, err := findUser(tx, task.AssignedTo); err != nil {
				if errors.Is(err, ErrUserNotFound) {
					return NewValidationError(err, FieldError{Field: "assignedTo", Error: err.Error()})
				}
				return err
			}
		}
		if err := tx.Create(&task).Error; err != nil {
			return errors.Wrap(err, "creating task")
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task together with all of its completions.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Completion{}).Error; err != nil {
			return errors.Wrap(err, "deleting completions")
		}
		if err := tx.Delete(&task).Error; err != nil {
			return errors.Wrap(err, "deleting task")
		}
		return nil
	})
}

func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, errors.Wrap(err, "listing tasks")
	}
	return tasks, nil
}
