package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mzaytsev/authd/internal/server/users"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (s *Server) sessionCookie(name, value string, maxAge time.Duration) *fiber.Cookie {
	c := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.cfg.Production,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge.Seconds())
		c.Expires = time.Now().Add(maxAge)
	}
	// maxAge == 0 leaves a session cookie that the browser drops on close.
	return c
}

// setSessionCookies installs the token pair. The access cookie always has a
// bounded lifetime; the refresh cookie is session-scoped unless the user
// asked to be remembered.
func (s *Server) setSessionCookies(c *fiber.Ctx, pair *users.TokenPair, rememberMe bool) {
	c.Cookie(s.sessionCookie(accessTokenCookie, pair.AccessToken, s.cfg.AccessTokenValidityDuration))

	var refreshAge time.Duration
	if rememberMe {
		refreshAge = s.cfg.RefreshTokenValidityDuration
	}
	c.Cookie(s.sessionCookie(refreshTokenCookie, pair.RefreshToken, refreshAge))
}

func (s *Server) setAccessCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(s.sessionCookie(accessTokenCookie, accessToken, s.cfg.AccessTokenValidityDuration))
}

// clearSessionCookies expires both cookies. The attribute set must match
// the one used when setting them, otherwise browsers keep the originals.
func (s *Server) clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		cleared := s.sessionCookie(name, "", 0)
		cleared.MaxAge = -1
		cleared.Expires = time.Unix(0, 0)
		c.Cookie(cleared)
	}
}
