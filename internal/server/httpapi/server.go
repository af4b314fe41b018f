package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/mzaytsev/authd/internal/logging"
	"github.com/mzaytsev/authd/internal/server/config"
	"github.com/mzaytsev/authd/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front of the auth service.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger logging.Logger
	users  *users.Service
}

func NewServer(cfg *config.Config, logger logging.Logger, us *users.Service) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.With("module", "httpapi"),
		users:  us,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          newErrorHandler(cfg.Production, s.logger),
		DisableStartupMessage: true,
	})

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendAllowedURL,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	// Per-route windows follow the sensitivity of each action: the email
	// senders are the tightest because every request costs an outbound mail.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", limit(100, 15*time.Minute), s.handleRegister)
	authGroup.Post("/login", limit(10, 15*time.Minute), s.handleLogin)
	authGroup.Get("/verify-email/:token", limit(20, 10*time.Minute), s.handleVerifyEmail)
	authGroup.Post("/resend-verification-email", limit(3, 15*time.Minute), s.handleResendVerificationEmail)
	authGroup.Post("/refresh", limit(15, 15*time.Minute), s.handleRefresh)
	authGroup.Post("/logout", s.handleLogout)
	authGroup.Post("/forgot-password", limit(3, 15*time.Minute), s.handleForgotPassword)
	authGroup.Post("/reset-password/:token", limit(5, 15*time.Minute), s.handleResetPassword)

	userGroup := api.Group("/users", s.requireAuth())
	// Registered before "/:id" so the literal segment wins the match.
	userGroup.Get("/current/me", s.handleCurrentUser)
	userGroup.Get("/", s.requireAdmin(), s.handleListUsers)
	userGroup.Get("/:id", s.requireAdmin(), s.handleGetUser)
	userGroup.Post("/", s.requireAdmin(), s.handleCreateUser)
	userGroup.Patch("/:id", s.requireAdmin(), s.handleUpdateUser)
	userGroup.Delete("/:id", s.requireAdmin(), s.handleDeleteUser)
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(context.Background(), "error shutting down http server", "error", err)
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddr)
	return s.app.Listen(s.cfg.EndpointAddr)
}

// App exposes the fiber app for tests driving requests through app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}
