package notifications

import (
	"context"
	"crypto/subtle"

	"gymvy/internal/featureflags"
	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/observability"
	"gymvy/internal/push"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// State is the terminal state of one webhook event.
type State string

const (
	StateUnauthorized State = "UNAUTHORIZED"
	StateIgnored      State = "IGNORED"
	StateInvalid      State = "INVALID"
	StateSuppressed   State = "SUPPRESSED"
	StateDispatched   State = "DISPATCHED"
	StateFailed       State = "FAILED"
)

// Result messages returned to the event source.
const (
	MsgUnauthorized = "Unauthorized"
	MsgIgnored      = "Ignored non-INSERT event"
	MsgNoRecord     = "No notification data"
	MsgSelf         = "Skipped self-notification"
	MsgNotFollowing = "Skipped comment like from unfollowed user"
	MsgSent         = "Push notification sent"
	MsgSendFailed   = "Error sending push"
)

// TokenStore is the slice of the push token repository the dispatcher uses.
type TokenStore interface {
	ListByUser(ctx context.Context, userID uint) ([]*models.PushToken, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
}

// UserLookup resolves actors.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// FollowChecker reports directional follow edges.
type FollowChecker interface {
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
}

// Publisher fans a payload out to the in-app stream.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// Result is what the webhook reports for one event.
type Result struct {
	State   State
	Message string
	Err     error
	Sent    int
	Failed  int
	Pruned  int
}

// Dispatcher validates notification-created events and delivers pushes.
type Dispatcher struct {
	secret    string
	tokens    TokenStore
	users     UserLookup
	follows   FollowChecker
	sender    push.Sender
	publisher Publisher
	flags     *featureflags.Flags
}

// DispatcherConfig wires a Dispatcher. Publisher and Flags are optional.
type DispatcherConfig struct {
	Secret    string
	Tokens    TokenStore
	Users     UserLookup
	Follows   FollowChecker
	Sender    push.Sender
	Publisher Publisher
	Flags     *featureflags.Flags
}

// NewDispatcher returns a Dispatcher for cfg.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		secret:    cfg.Secret,
		tokens:    cfg.Tokens,
		users:     cfg.Users,
		follows:   cfg.Follows,
		sender:    cfg.Sender,
		publisher: cfg.Publisher,
		flags:     cfg.Flags,
	}
}

// Authorized compares the provided header against the configured secret.
// An unset secret accepts every caller.
func (d *Dispatcher) Authorized(provided string) bool {
	if d.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(d.secret)) == 1
}

// Handle runs one event through the delivery state machine. Delivery errors
// are reported in the Result and never returned to the caller.
func (d *Dispatcher) Handle(ctx context.Context, providedSecret string, ev *Event) Result {
	ctx, end := observability.StartSpan(ctx, "notifications.dispatch")
	res := d.handle(ctx, providedSecret, ev)
	middleware.WebhookEvents.WithLabelValues(string(res.State)).Inc()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("webhook.state", string(res.State)),
		attribute.Int("push.sent", res.Sent),
		attribute.Int("push.pruned", res.Pruned),
	)
	end(res.Err)
	return res
}

func (d *Dispatcher) handle(ctx context.Context, providedSecret string, ev *Event) Result {
	if !d.Authorized(providedSecret) {
		middleware.Logger.WarnContext(ctx, "webhook secret mismatch")
		return Result{State: StateUnauthorized, Message: MsgUnauthorized}
	}
	if ev == nil || ev.Type != EventInsert {
		return Result{State: StateIgnored, Message: MsgIgnored}
	}
	rec := ev.Record
	if rec == nil {
		return Result{State: StateInvalid, Message: MsgNoRecord}
	}
	if err := rec.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "webhook record has malformed ids", "error", err)
		return Result{State: StateFailed, Message: MsgSendFailed, Err: err}
	}
	if rec.RecipientID == 0 {
		return Result{State: StateInvalid, Message: MsgNoRecord}
	}
	if rec.RecipientID == rec.ActorID {
		return Result{State: StateSuppressed, Message: MsgSelf}
	}

	eventID := uuid.NewString()
	log := middleware.Logger.With("event_id", eventID, "type", string(rec.Type),
		"recipient_id", uint(rec.RecipientID), "actor_id", uint(rec.ActorID))

	if rec.Type == models.NotificationCommentLike && d.flags.Enabled(featureflags.CommentLikeFollowGate, uint(rec.RecipientID)) {
		follows, err := d.follows.Exists(ctx, uint(rec.RecipientID), uint(rec.ActorID))
		if err != nil {
			log.ErrorContext(ctx, "follow check failed", "error", err)
			return Result{State: StateFailed, Message: MsgSendFailed, Err: err}
		}
		if !follows {
			return Result{State: StateSuppressed, Message: MsgNotFollowing}
		}
	}

	actorName := "Someone"
	if actor, err := d.users.GetByID(ctx, uint(rec.ActorID)); err == nil {
		actorName = actor.DisplayName()
	} else if !models.IsCode(err, models.CodeNotFound) {
		log.ErrorContext(ctx, "actor lookup failed", "error", err)
		return Result{State: StateFailed, Message: MsgSendFailed, Err: err}
	}
	title, body := Render(rec.Type, actorName)
	data := map[string]any{
		"type":      rec.Type,
		"postId":    rec.PostID.Ptr(),
		"commentId": rec.CommentID.Ptr(),
		"actorId":   uint(rec.ActorID),
	}

	d.publish(ctx, uint(rec.RecipientID), title, body, data)

	tokens, err := d.tokens.ListByUser(ctx, uint(rec.RecipientID))
	if err != nil {
		log.ErrorContext(ctx, "push token lookup failed", "error", err)
		return Result{State: StateFailed, Message: MsgSendFailed, Err: err}
	}

	msgs := make([]push.Message, 0, len(tokens))
	for _, t := range tokens {
		if !push.IsExpoPushToken(t.Token) {
			log.WarnContext(ctx, "skipping invalid push token", "token_id", t.ID)
			middleware.PushDeliveries.WithLabelValues(string(rec.Type), "invalid_token").Inc()
			continue
		}
		msgs = append(msgs, push.Message{
			To:    t.Token,
			Title: title,
			Body:  body,
			Sound: "default",
			Data:  data,
		})
	}
	if len(msgs) == 0 {
		log.InfoContext(ctx, "no deliverable push tokens")
		return Result{State: StateDispatched, Message: MsgSent}
	}

	tickets, sendErr := d.sender.Send(ctx, msgs)
	res := Result{State: StateDispatched, Message: MsgSent}
	// Tickets align with a prefix of msgs, so they can be settled even after a failure.
	for i, ticket := range tickets {
		if i >= len(msgs) {
			break
		}
		switch {
		case ticket.Status == push.StatusOK:
			res.Sent++
			middleware.PushDeliveries.WithLabelValues(string(rec.Type), "ok").Inc()
		case ticket.Unregistered():
			res.Failed++
			middleware.PushDeliveries.WithLabelValues(string(rec.Type), "unregistered").Inc()
			if _, err := d.tokens.DeleteByToken(ctx, msgs[i].To); err != nil {
				log.ErrorContext(ctx, "failed to prune push token", "error", err)
				continue
			}
			res.Pruned++
		default:
			res.Failed++
			middleware.PushDeliveries.WithLabelValues(string(rec.Type), "error").Inc()
			log.WarnContext(ctx, "push delivery failed", "message", ticket.Message, "detail", ticket.Details.Error)
		}
	}

	if sendErr != nil {
		log.ErrorContext(ctx, "push transport failed", "error", sendErr)
		res.State = StateFailed
		res.Message = MsgSendFailed
		res.Err = sendErr
		return res
	}
	log.InfoContext(ctx, "push dispatched", "sent", res.Sent, "failed", res.Failed, "pruned", res.Pruned)
	return res
}

func (d *Dispatcher) publish(ctx context.Context, recipientID uint, title, body string, data map[string]any) {
	if d.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":    "notification",
		"title":   title,
		"body":    body,
		"payload": data,
	})
	if err == nil {
		err = d.publisher.PublishUser(ctx, recipientID, string(payload))
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "in-app notification publish failed", "error", err)
	}
}
