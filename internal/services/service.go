package services

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

// Service implements the domain operations over the store. Every exported
// method touches one logical unit and runs in a single transaction.
type Service struct {
	db    *gorm.DB
	clock models.Clock
}

func NewService(db *gorm.DB, clock models.Clock) *Service {
	return &Service{db: db, clock: clock}
}

// Today is the calendar date completions are recorded against.
func (s *Service) Today() string {
	return s.clock.Today()
}

func cleanLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// optionalID turns an empty or blank ID into nil.
func optionalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func findUser(tx *gorm.DB, id string) (models.User, error) {
	var usr models.User
	if err := tx.Where("id = ?", id).First(&usr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, errors.Wrap(err, "loading user")
	}
	return usr, nil
}

func findGroup(tx *gorm.DB, id string) (models.Group, error) {
	var group models.Group
	if err := tx.Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Group{}, ErrGroupNotFound
		}
		return models.Group{}, errors.Wrap(err, "loading group")
	}
	return group, nil
}

func findTask(tx *gorm.DB, id string) (models.Task, error) {
	var task models.Task
	if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, errors.Wrap(err, "loading task")
	}
	return task, nil
}
