package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mzaytsev/authd/internal/server/auth"
	"github.com/mzaytsev/authd/internal/server/users"
	"github.com/mzaytsev/authd/internal/shared"
)

type ctxKey int

const identityKey ctxKey = 0

// Identity is the authenticated caller, as attached to the request by
// requireAuth.
type Identity struct {
	ID       string
	Username string
	Email    string
	Role     string
}

func identityFrom(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityKey).(*Identity)
	return id, ok
}

// extractAccessToken picks the access token off the request. An
// Authorization header takes precedence over the accessToken cookie.
func extractAccessToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		// A malformed header is still a presented credential; it must
		// fail verification rather than fall through to the cookie.
		return header
	}
	return c.Cookies(accessTokenCookie)
}

// requireAuth verifies the access token and re-resolves the account from
// the store, so tokens of deleted accounts stop working immediately.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractAccessToken(c)
		if token == "" {
			return shared.Unauthorized("User is not authorized or token is missing")
		}

		claims, err := auth.ParseAccessToken(token, []byte(s.cfg.AccessTokenSecret))
		if err != nil {
			return shared.Unauthorized("User is not authorized")
		}

		user, err := s.users.GetUser(c.UserContext(), claims.UserID)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				return shared.Forbidden("User no longer exists")
			}
			return err
		}

		c.Locals(identityKey, &Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
		return c.Next()
	}
}

// requireAdmin re-fetches the acting account and requires the admin role.
// The re-fetch means a demotion takes effect even while an old access token
// is still valid.
func (s *Server) requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := identityFrom(c)
		if !ok {
			return shared.Unauthorized("User is not authorized")
		}

		user, err := s.users.GetUser(c.UserContext(), identity.ID)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				return shared.Forbidden("User no longer exists")
			}
			return err
		}

		if user.Role != users.RoleAdmin {
			return shared.Forbidden("User is not authorized to access this resource")
		}
		return c.Next()
	}
}
