package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arnold/taskboard/internal/models"
)

const sessionKey = "session"

type Claims struct {
	UserID             string `json:"userId"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
	jwt.RegisteredClaims
}

// Session is the authenticated caller of a request.
type Session struct {
	UserID             string
	Role               string
	MustChangePassword bool
}

func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

func GenerateToken(secret string, ttl time.Duration, user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:             user.ID,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// UserLookup loads the account a token was issued to.
type UserLookup func(ctx context.Context, id string) (models.User, error)

// Protected verifies the bearer token and rebuilds the session from the
// stored account, so resets, role changes and deletions apply to tokens
// issued before them.
func Protected(secret string, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format",
			})
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		user, err := users(c.UserContext(), claims.UserID)
		if err != nil {
			log.Debugf("auth: rejecting token for %s: %v", claims.UserID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session is no longer valid",
			})
		}

		c.Locals(sessionKey, &Session{
			UserID:             user.ID,
			Role:               user.Role,
			MustChangePassword: user.MustChangePassword,
		})

		return c.Next()
	}
}

// CurrentSession returns the session stored by Protected, or nil.
func CurrentSession(c *fiber.Ctx) *Session {
	sess, _ := c.Locals(sessionKey).(*Session)
	return sess
}

// PasswordChanged blocks accounts that still carry a seeded or reset password.
func PasswordChanged() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}
		if sess.MustChangePassword {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Password change required",
			})
		}
		return c.Next()
	}
}

func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}
		if !sess.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}
