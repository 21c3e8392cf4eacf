package services

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

const minPasswordLen = 6

// NewUser contains information needed to create a member account.
type NewUser struct {
	Name     string
	Login    string
	Password string
	GroupID  *string
}

func loginTaken() error {
	return NewValidationError(ErrLoginTaken, FieldError{Field: "login", Error: ErrLoginTaken.Error()})
}

func checkPassword(field, pwd string) error {
	if len(pwd) < minPasswordLen {
		err := errors.Errorf("password must be at least %d characters long", minPasswordLen)
		return NewValidationError(err, FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// CreateUser adds a member. A login that already exists yields ErrLoginTaken.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (models.User, error) {
	name := strings.TrimSpace(nu.Name)
	login := cleanLogin(nu.Login)

	var flds []FieldError
	if name == "" {
		flds = append(flds, FieldError{Field: "name", Error: "this field is required"})
	}
	if login == "" {
		flds = append(flds, FieldError{Field: "login", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return models.User{}, NewValidationError(errors.New("invalid user"), flds...)
	}
	if err := checkPassword("password", nu.Password); err != nil {
		return models.User{}, err
	}

	usr := models.User{
		Name:    name,
		Login:   login,
		Role:    models.RoleMember,
		GroupID: optionalID(nu.GroupID),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return models.User{}, errors.Wrap(err, "hashing password")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if usr.GroupID != nil {
			if _, err := findGroup(tx, *usr.GroupID); err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("login = ?", login).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking login")
		}
		if count > 0 {
			return loginTaken()
		}

		if err := tx.Create(&usr).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return loginTaken()
			}
			return errors.Wrap(err, "creating user")
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return usr, nil
}

// Authenticate looks up a user by login and password. Legacy SHA-256 hashes
// are upgraded to bcrypt on a successful match.
func (s *Service) Authenticate(ctx context.Context, login, password string) (models.User, error) {
	db := s.db.WithContext(ctx)

	var usr models.User
	if err := db.Where("login = ?", cleanLogin(login)).First(&usr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, errors.Wrap(err, "loading user")
	}

	ok, legacy := usr.CheckPassword(password)
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	if legacy {
		if err := usr.SetPassword(password); err != nil {
			return models.User{}, errors.Wrap(err, "hashing password")
		}
		if err := db.Model(&usr).Update("password_hash", usr.PasswordHash).Error; err != nil {
			log.Warnf("users: could not upgrade password hash for %s: %v", usr.ID, err)
		}
	}
	return usr, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	return findUser(s.db.WithContext(ctx), id)
}

// ListMembers returns every non-admin account ordered by name.
func (s *Service) ListMembers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("role <> ?", models.RoleAdmin).
		Order("name ASC").Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "listing members")
	}
	return users, nil
}

// DeleteUser removes a member together with all of their completions.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usr, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if usr.IsAdmin() {
			return ErrProtectedUser
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Completion{}).Error; err != nil {
			return errors.Wrap(err, "deleting completions")
		}
		if err := tx.Delete(&usr).Error; err != nil {
			return errors.Wrap(err, "deleting user")
		}
		return nil
	})
}

// SetUserGroup moves a user into a group, or out of any group when groupID is nil.
func (s *Service) SetUserGroup(ctx context.Context, id string, groupID *string) error {
	groupID = optionalID(groupID)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, id); err != nil {
			return err
		}

		var value interface{} = gorm.Expr("NULL")
		if groupID != nil {
			if _, err := findGroup(tx, *groupID); err != nil {
				return err
			}
			value = *groupID
		}

		if err := tx.Model(&models.User{}).Where("id = ?", id).Update("group_id", value).Error; err != nil {
			return errors.Wrap(err, "updating group")
		}
		return nil
	})
}

// ChangePassword is the self-service password change. It clears the
// must-change flag set on seeded or reset accounts.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	if err := checkPassword("newPassword", next); err != nil {
		return err
	}
	if current == next {
		err := errors.New("new password must differ from the current one")
		return NewValidationError(err, FieldError{Field: "newPassword", Error: err.Error()})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usr, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if ok, _ := usr.CheckPassword(current); !ok {
			return ErrInvalidCredentials
		}
		return savePassword(tx, &usr, next, false)
	})
}

// ResetPassword lets an admin assign a temporary password. The owner must
// change it on next login.
func (s *Service) ResetPassword(ctx context.Context, id, next string) error {
	if err := checkPassword("newPassword", next); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usr, err := findUser(tx, id)
		if err != nil {
			return err
		}
		return savePassword(tx, &usr, next, true)
	})
}

func savePassword(tx *gorm.DB, usr *models.User, pwd string, mustChange bool) error {
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.MustChangePassword = mustChange
	if err := tx.Model(usr).Updates(map[string]interface{}{
		"password_hash":        usr.PasswordHash,
		"must_change_password": mustChange,
	}).Error; err != nil {
		return errors.Wrap(err, "saving password")
	}
	return nil
}
