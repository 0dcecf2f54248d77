package whatsapp

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/t-ega/whatsapp-cloud-sdk/logx"
)

const defaultWebhookPath = "/webhook"

// Handler processes one inbound message. Returning an error logs it; the
// webhook response to the platform is 200 either way, since a non-2xx only
// triggers redelivery of a notification that has already been handled.
type Handler func(c *fiber.Ctx, msg *Message) error

// Server receives webhook notifications from the platform, verifies the
// subscription handshake, and dispatches parsed messages to a Handler.
type Server struct {
	app         *fiber.App
	bot         *Bot
	verifyToken string
	handler     Handler
	path        string
	autoRead    bool
	dedupe      *dedupeCache
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithWebhookPath overrides the default /webhook route
func WithWebhookPath(path string) ServerOption {
	return func(s *Server) { s.path = path }
}

// WithoutAutoRead disables the automatic read receipt the server issues
// after a handler completes
func WithoutAutoRead() ServerOption {
	return func(s *Server) { s.autoRead = false }
}

// WithDedupe drops webhook redeliveries of a message id seen within ttl
func WithDedupe(ttl time.Duration) ServerOption {
	return func(s *Server) { s.dedupe = newDedupeCache(ttl) }
}

// NewServer builds a webhook server bound to bot. verifyToken must match the
// token configured in the Meta developer dashboard; handler receives every
// parsed inbound message.
func NewServer(bot *Bot, verifyToken string, handler Handler, opts ...ServerOption) (*Server, error) {
	if bot == nil {
		return nil, Errors.NewWithMessage(ErrConfigInvalid, "a Bot is required")
	}
	if verifyToken == "" {
		return nil, Errors.NewWithMessage(ErrConfigInvalid, "a verify token is required").
			WithDetail("field", "verifyToken")
	}
	if handler == nil {
		return nil, Errors.NewWithMessage(ErrConfigInvalid, "a message handler is required").
			WithDetail("field", "handler")
	}

	s := &Server{
		bot:         bot,
		verifyToken: verifyToken,
		handler:     handler,
		path:        defaultWebhookPath,
		autoRead:    true,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Use(fiberrecover.New())
	s.app.Get(s.path, s.handleVerify)
	s.app.Post(s.path, s.handleNotification)

	return s, nil
}

// App exposes the underlying fiber app, mainly for mounting extra routes
// and for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given port and blocks until Shutdown
func (s *Server) Listen(port int) error {
	logx.Info("Webhook server listening on port %d (path %s)", port, s.path)
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleVerify answers the subscription handshake. The platform sends
// hub.mode, hub.verify_token and hub.challenge; echoing the challenge
// confirms ownership of the endpoint.
func (s *Server) handleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == s.verifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	logx.Warn("Webhook verification rejected (mode=%s)", mode)
	return c.SendStatus(fiber.StatusForbidden)
}

func (s *Server) handleNotification(c *fiber.Ctx) error {
	msg, err := ParseWebhook(c.Body(), s.bot)
	if err != nil {
		// A malformed body is the platform's problem, not grounds for
		// redelivery. Log and acknowledge.
		logx.Error("Webhook payload rejected: %v", err)
		return ack(c)
	}
	if msg == nil {
		// Status update, nothing to dispatch
		return ack(c)
	}

	if s.dedupe != nil && s.dedupe.Seen(msg.ID) {
		logx.Debug("Dropping redelivered message %s", msg.ID)
		return ack(c)
	}

	logx.Info("Inbound %s message %s from %s", msg.Type, msg.ID, msg.From)

	if err := s.dispatch(c, msg); err != nil {
		logx.Error("Handler failed for message %s: %v", msg.ID, err)
	}

	if s.autoRead && !msg.autoReadOff {
		if _, err := s.bot.MarkMessageAsRead(c.UserContext(), msg.ID); err != nil {
			logx.Warn("Mark as read failed for message %s: %v", msg.ID, err)
		}
	}

	return ack(c)
}

// dispatch runs the handler, converting a panic into an error. A non-2xx
// answer would only make the platform redeliver a notification the handler
// already saw, so the webhook is acknowledged no matter how the handler
// fails.
func (s *Server) dispatch(c *fiber.Ctx, msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return s.handler(c, msg)
}

func ack(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}
