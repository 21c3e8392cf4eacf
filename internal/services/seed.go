package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

// EnsureAdmin creates the administrator account on first run. When password is
// empty a random one is generated and returned so the caller can show it once.
// The seeded account must change its password before doing anything else.
func (s *Service) EnsureAdmin(ctx context.Context, login, password string) (admin models.User, generated string, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("role = ?", models.RoleAdmin).Order("created_at ASC").First(&admin).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "looking up admin")
		}

		if password == "" {
			generated = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
			password = generated
		}

		admin = models.User{
			Login:              cleanLogin(login),
			Name:               "Administrator",
			Role:               models.RoleAdmin,
			MustChangePassword: true,
		}
		if err := admin.SetPassword(password); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		if err := tx.Create(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrLoginTaken
			}
			return errors.Wrap(err, "creating admin")
		}
		return nil
	})
	if err != nil {
		return models.User{}, "", err
	}
	return admin, generated, nil
}
