package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	Login              string    `json:"login" gorm:"uniqueIndex;not null"`
	PasswordHash       string    `json:"-" gorm:"not null"`
	Name               string    `json:"name" gorm:"not null"`
	Role               string    `json:"role" gorm:"not null;default:'member'"`
	GroupID            *string   `json:"groupId" gorm:"index"`
	MustChangePassword bool      `json:"mustChangePassword" gorm:"default:false"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether pwd matches the stored hash. The second result
// is true when the hash is a legacy unsalted SHA-256 digest that should be
// replaced with bcrypt.
func (u *User) CheckPassword(pwd string) (ok bool, legacy bool) {
	if IsLegacyHash(u.PasswordHash) {
		return subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(LegacyHash(pwd))) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pwd)) == nil, false
}

// LegacyHash is the hex SHA-256 digest older installations stored.
func LegacyHash(pwd string) string {
	sum := sha256.Sum256([]byte(pwd))
	return hex.EncodeToString(sum[:])
}

func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	return nil
}

// Auth DTOs
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User DTOs
type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required"`
	Login    string  `json:"login" validate:"required,min=3,max=64"`
	Password string  `json:"password" validate:"required,min=6"`
	GroupID  *string `json:"groupId"`
}

type SetGroupRequest struct {
	GroupID *string `json:"groupId"`
}
