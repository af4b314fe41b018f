package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mzaytsev/authd/internal/server/auth"
	"github.com/mzaytsev/authd/internal/shared"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=1,max=12"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=60"`
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=60"`
	RememberMe *bool  `json:"rememberMe" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=60"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.users.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, pair, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.setSessionCookies(c, pair, *req.RememberMe)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func (s *Server) handleVerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if !auth.ValidOneTimeTokenFormat(token) {
		return shared.Validation("Verification token format is not valid")
	}

	if err := s.users.VerifyEmail(c.UserContext(), token); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Email verified successfully. You may now log in."})
}

func (s *Server) handleResendVerificationEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := s.users.ResendVerificationEmail(c.UserContext(), req.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification email sent"})
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshTokenCookie)
	if refreshToken == "" {
		return shared.Unauthorized("No refresh token provided")
	}

	accessToken, err := s.users.RefreshAccessToken(c.UserContext(), refreshToken)
	if err != nil {
		return err
	}

	s.setAccessCookie(c, accessToken)

	return c.JSON(fiber.Map{"message": "Token refreshed successfully"})
}

// handleLogout is transport-only: sessions are stateless, so logging out
// means dropping the cookies on the client.
func (s *Server) handleLogout(c *fiber.Ctx) error {
	if c.Cookies(accessTokenCookie) == "" && c.Cookies(refreshTokenCookie) == "" {
		return shared.Unauthorized("No active session")
	}

	s.clearSessionCookies(c)

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (s *Server) handleForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := s.users.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}

	// The response does not reveal whether the address has an account.
	return c.JSON(fiber.Map{"message": "If that email is registered, a password reset link has been sent"})
}

func (s *Server) handleResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	if !auth.ValidOneTimeTokenFormat(token) {
		return shared.Validation("Reset token format is not valid")
	}

	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := s.users.ResetPassword(c.UserContext(), token, req.Password); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
