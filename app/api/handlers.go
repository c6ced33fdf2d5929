package api

import (
	"anbsupport/app/service/chat"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

//go:embed static/chat.html
var chatPage []byte

const sessionSeenKey = "seen_at"

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	if _, err := s.session(c); err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(chatPage)
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	sess, err := s.session(c)
	if err != nil {
		return err
	}

	reply := s.chatSvc.Reply(c.UserContext(), sess.ID(), req.Message)

	return c.JSON(chatResponse{Response: reply})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// session loads or creates the visitor session and refreshes its cookie.
func (s *Server) session(c *fiber.Ctx) (*session.Session, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil, err
	}

	if sess.Fresh() {
		slog.Debug("New chat session", "session", sess.ID(), "ip", c.IP())
	}

	sess.Set(sessionSeenKey, time.Now().Unix())
	if err = sess.Save(); err != nil {
		return nil, err
	}

	return sess, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := chat.Apology

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(errorResponse{Error: msg})
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	slog.Debug("HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)

	return err
}
