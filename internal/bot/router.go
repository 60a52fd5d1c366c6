// Package bot routes inbound chat messages: reminder requests are parsed,
// persisted and scheduled; everything else goes to the assistant reply
// chain.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ingatbot/internal/dedupe"
	"ingatbot/internal/history"
	"ingatbot/internal/remind"
	"ingatbot/internal/reply"
)

// Transport delivers outbound messages. Sends are best-effort; the router
// never retries them.
type Transport interface {
	Send(ctx context.Context, conversationID, text string) error
}

// Responder produces a best-effort assistant reply. It never fails.
type Responder interface {
	GetReply(ctx context.Context, text string, turns []reply.Turn, opts ...reply.Option) string
}

// InboundMessage is one message handed to the router by the transport
// event layer.
type InboundMessage struct {
	ConversationID string
	MessageID      string
	SenderIsSelf   bool
	Text           string
	Now            time.Time
}

const defaultSendTimeout = 30 * time.Second

// Config holds router construction parameters.
type Config struct {
	// Location resolves reminder times and formats confirmations.
	Location *time.Location
	// ConversationID, when set, restricts the router to one conversation;
	// messages from any other conversation are silently dropped.
	ConversationID string
	// SendTimeout bounds each reminder delivery send.
	SendTimeout time.Duration
}

// Router is the per-message state machine. OnMessage may be called from
// concurrent transport handlers, and reminder timers fire on their own
// goroutines; the guard, history cache, store and scheduler all lock
// internally so no further serialization is needed here.
type Router struct {
	guard     *dedupe.Guard
	parser    *remind.Parser
	store     *remind.Store
	scheduler *remind.Scheduler
	history   *history.Cache
	responder Responder
	transport Transport

	loc            *time.Location
	conversationID string
	sendTimeout    time.Duration
	logger         *slog.Logger
}

// NewRouter wires the router from its collaborators.
func NewRouter(
	store *remind.Store,
	scheduler *remind.Scheduler,
	cache *history.Cache,
	responder Responder,
	transport Transport,
	cfg Config,
) *Router {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &Router{
		guard:          dedupe.NewGuard(),
		parser:         remind.NewParser(loc),
		store:          store,
		scheduler:      scheduler,
		history:        cache,
		responder:      responder,
		transport:      transport,
		loc:            loc,
		conversationID: cfg.ConversationID,
		sendTimeout:    sendTimeout,
		logger:         slog.Default(),
	}
}

// SetLogger sets a custom logger.
func (r *Router) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// OnMessage processes one inbound message and returns the reply text. The
// second return value is false when the message was dropped before
// classification: self-originated, already seen, outside the monitored
// conversation, or empty.
func (r *Router) OnMessage(ctx context.Context, msg InboundMessage) (string, bool) {
	if msg.SenderIsSelf {
		r.logger.Debug("skipped message from self", "conversation", msg.ConversationID)
		return "", false
	}
	if msg.MessageID != "" && !r.guard.CheckAndMark(msg.MessageID) {
		r.logger.Debug("skipped already processed message", "message_id", msg.MessageID)
		return "", false
	}
	if r.conversationID != "" && msg.ConversationID != r.conversationID {
		r.logger.Debug("skipped message outside monitored conversation", "conversation", msg.ConversationID)
		return "", false
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		r.logger.Debug("skipped empty message", "message_id", msg.MessageID)
		return "", false
	}

	now := msg.Now
	if now.IsZero() {
		now = time.Now()
	}

	parsed, err := r.parser.Parse(text, now)
	if err != nil {
		var perr *remind.ParseError
		if errors.As(err, &perr) {
			return perr.Message + "\n" + exampleHintText, true
		}
		r.logger.Error("unexpected parse failure", "error", err)
		return processingErrorText, true
	}
	if parsed != nil {
		return r.handleReminder(msg.ConversationID, parsed, now), true
	}
	return r.handleConversation(ctx, msg.ConversationID, text), true
}

// handleReminder persists and schedules a parsed reminder request.
func (r *Router) handleReminder(conversationID string, parsed *remind.ParsedReminder, now time.Time) string {
	if !parsed.FireAt.After(now) {
		return timePastText
	}

	reminder := remind.Reminder{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		FireAt:         parsed.FireAt,
		Note:           parsed.Note,
	}

	if err := r.store.Append(reminder); err != nil {
		// Write failures degrade durability, not availability: the timer is
		// still armed for this process lifetime.
		r.logger.Error("failed to persist reminder", "id", reminder.ID, "error", err)
	}
	r.scheduleReminder(reminder)

	return confirmationText(reminder.FireAt.In(r.loc))
}

// handleConversation runs the assistant reply branch. The user turn is
// recorded before the chain runs so a chain failure still leaves the
// message available as context for the next turn.
func (r *Router) handleConversation(ctx context.Context, conversationID, text string) string {
	prior := r.history.Get(conversationID)
	r.history.Append(conversationID, history.RoleUser, text)

	turns := make([]reply.Turn, len(prior))
	for i, e := range prior {
		turns[i] = reply.Turn{Role: e.Role, Content: e.Content}
	}

	answer := r.responder.GetReply(ctx, text, turns)
	r.history.Append(conversationID, history.RoleAssistant, answer)
	return answer
}

// RestoreReminders re-arms timers for every persisted reminder that is
// still in the future. Past-due reminders are dropped by the scheduler's
// stale rule. Returns the number of timers armed.
func (r *Router) RestoreReminders() int {
	armed := 0
	for _, reminder := range r.store.LoadAll() {
		if r.scheduleReminder(reminder) {
			armed++
		}
	}
	r.logger.Info("restored persisted reminders", "armed", armed)
	return armed
}

func (r *Router) scheduleReminder(reminder remind.Reminder) bool {
	return r.scheduler.Schedule(reminder, r.deliverReminder, r.removeReminder)
}

// deliverReminder sends the due reminder text. At-most-once: a failed send
// is logged, never retried.
func (r *Router) deliverReminder(reminder remind.Reminder) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.sendTimeout)
	defer cancel()
	return r.transport.Send(ctx, reminder.ConversationID, deliveryText(reminder, r.loc))
}

// removeReminder cleans the store after a timer fired, successfully or not.
func (r *Router) removeReminder(id string) {
	if err := r.store.Remove(id); err != nil {
		r.logger.Error("failed to remove fired reminder", "id", id, "error", err)
	}
}
