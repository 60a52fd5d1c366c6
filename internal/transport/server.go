package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"

	"ingatbot/internal/bot"
)

// MessageHandler processes one inbound message and returns the reply, if
// any. Satisfied by *bot.Router.
type MessageHandler interface {
	OnMessage(ctx context.Context, msg bot.InboundMessage) (string, bool)
}

// inboundRequest is the webhook payload for an incoming chat message.
type inboundRequest struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	SenderIsSelf   bool   `json:"sender_is_self"`
	Text           string `json:"text"`
}

// inboundResponse reports what the router did with the message.
type inboundResponse struct {
	Reply   string `json:"reply,omitempty"`
	Dropped bool   `json:"dropped"`
}

// Server receives inbound chat messages over HTTP and hands them to the
// router. Handlers run on one goroutine per request, so everything the
// router touches must serialize internally.
type Server struct {
	echo    *echo.Echo
	handler MessageHandler
	addr    string
	logger  *slog.Logger
}

// NewServer creates the inbound webhook server listening on addr.
func NewServer(addr string, handler MessageHandler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		handler: handler,
		addr:    addr,
		logger:  slog.Default(),
	}

	e.GET("/healthz", s.handleHealth)
	e.POST("/api/v1/messages", s.handleMessage)
	return s
}

// SetLogger sets a custom logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("inbound webhook server listening", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMessage(c echo.Context) error {
	var req inboundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message payload")
	}

	requestID := shortuuid.New()
	logger := s.logger.With("request_id", requestID, "conversation", req.ConversationID)
	logger.Debug("inbound message received", "message_id", req.MessageID)

	reply, ok := s.handler.OnMessage(c.Request().Context(), bot.InboundMessage{
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		SenderIsSelf:   req.SenderIsSelf,
		Text:           req.Text,
		Now:            time.Now(),
	})
	if !ok {
		return c.JSON(http.StatusOK, inboundResponse{Dropped: true})
	}

	logger.Debug("reply produced", "length", len(reply))
	return c.JSON(http.StatusOK, inboundResponse{Reply: reply})
}
