package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mzaytsev/authd/internal/server/users"
	"github.com/mzaytsev/authd/internal/shared"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=12"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=60"`
	Role     string `json:"role" validate:"omitempty,oneof=user driver admin"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=12"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=60"`
	Role     *string `json:"role" validate:"omitempty,oneof=user driver admin"`
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	list, err := s.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*users.User{}
	}
	return c.JSON(list)
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	user, err := s.users.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// handleCurrentUser returns the caller's own account. Driver accounts have
// no self-service dashboard, so the endpoint is limited to user and admin.
func (s *Server) handleCurrentUser(c *fiber.Ctx) error {
	identity, ok := identityFrom(c)
	if !ok {
		return shared.Unauthorized("User is not authorized")
	}

	if identity.Role != users.RoleUser && identity.Role != users.RoleAdmin {
		return shared.Forbidden("User is not authorized to access this resource")
	}

	return c.JSON(fiber.Map{
		"id":       identity.ID,
		"username": identity.Username,
		"email":    identity.Email,
		"role":     identity.Role,
	})
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.users.CreateUser(c.UserContext(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (s *Server) handleUpdateUser(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.users.UpdateUser(c.UserContext(), id, users.UpdatePatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(user)
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := s.users.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Deleted user " + id})
}
