package api

import (
	"anbsupport/app/config"
	"anbsupport/app/service/admin"
	"anbsupport/app/service/chat"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/samber/do"
)

const (
	sessionCookie   = "anb_session"
	shutdownTimeout = 10 * time.Second
)

var _ do.Shutdownable = (*Server)(nil)

type Server struct {
	cfg      *config.Config
	chatSvc  *chat.Service
	adminSvc *admin.Service

	app      *fiber.App
	sessions *session.Store
	validate *validator.Validate
}

func New(di *do.Injector) (*Server, error) {
	return NewServer(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*chat.Service](di),
		do.MustInvoke[*admin.Service](di),
	)
}

func NewServer(cfg *config.Config, chatSvc *chat.Service, adminSvc *admin.Service) (*Server, error) {
	key := cookieKey(cfg.Session.Secret)

	s := &Server{
		cfg:      cfg,
		chatSvc:  chatSvc,
		adminSvc: adminSvc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		sessions: session.New(session.Config{
			Expiration:     cfg.Session.Expiration,
			KeyLookup:      "cookie:" + sessionCookie,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			KeyGenerator:   uuid.NewString,
		}),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		ReadTimeout:           time.Minute,
	})

	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			slog.Error("Panic while handling request", "path", c.Path(), "panic", e)
		},
	}))
	s.app.Use(requestLogger)
	s.app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))

	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/", s.handleIndex)
	s.app.Post("/chat", s.handleChat)
	s.app.Get("/healthz", s.handleHealth)

	if s.cfg.Admin.Token != "" {
		s.app.All("/admin/mcp", adminAuth(s.cfg.Admin.Token), adminHandler(s.adminSvc))
	} else {
		slog.Info("Admin MCP endpoint disabled, admin.token is empty")
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("HTTP shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	slog.Info("HTTP server listening", "addr", addr)

	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return nil
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

// cookieKey derives an AES-256 key from the session secret. Without a
// secret a random key is used and cookies do not survive a restart.
func cookieKey(secret string) string {
	if secret == "" {
		slog.Warn("SESSION_SECRET is not set, using a random cookie key")
		return encryptcookie.GenerateKey()
	}

	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
