package middleware

import (
	"context"
	"strings"
	"vistoria/internal/models"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// RequireAuth validates the bearer access token and loads the active user.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			log.Info("missing or malformed authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		user, err := m.auth.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			log.Info("token rejected", "error", err.Error())
			message := "Invalid token"
			if appErr, ok := types.AsAppError(err); ok {
				message = appErr.Message
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": message,
			})
		}

		c.Locals(UserKeyFiber, user)
		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetActor builds the caller identity used by controllers for scoping and audit.
func GetActor(c *fiber.Ctx) types.Actor {
	return types.Actor{User: GetUser(c), IP: c.IP()}
}
