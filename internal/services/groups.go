package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

func (s *Service) CreateGroup(ctx context.Context, name string) (models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Group{}, NewValidationError(errors.New("invalid group"),
			FieldError{Field: "name", Error: "this field is required"})
	}

	group := models.Group{Name: name}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return models.Group{}, errors.Wrap(err, "creating group")
	}
	return group, nil
}

// DeleteGroup removes a group. Its members stay, with no group.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := findGroup(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("group_id = ?", id).
			Update("group_id", gorm.Expr("NULL")).Error; err != nil {
			return errors.Wrap(err, "clearing group members")
		}
		if err := tx.Delete(&group).Error; err != nil {
			return errors.Wrap(err, "deleting group")
		}
		return nil
	})
}

func (s *Service) GetGroup(ctx context.Context, id string) (models.Group, error) {
	return findGroup(s.db.WithContext(ctx), id)
}

func (s *Service) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&groups).Error; err != nil {
		return nil, errors.Wrap(err, "listing groups")
	}
	return groups, nil
}
