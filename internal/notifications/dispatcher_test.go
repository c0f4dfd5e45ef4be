package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gymvy/internal/featureflags"
	"gymvy/internal/models"
	"gymvy/internal/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu      sync.Mutex
	byUser  map[uint][]string
	deleted []string
	listErr error
}

func (m *memTokens) ListByUser(_ context.Context, userID uint) ([]*models.PushToken, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.PushToken, 0, len(m.byUser[userID]))
	for i, tok := range m.byUser[userID] {
		out = append(out, &models.PushToken{ID: uint(i + 1), UserID: userID, Token: tok})
	}
	return out, nil
}

func (m *memTokens) DeleteByToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, token)
	return 1, nil
}

type memUsers map[uint]*models.User

func (m memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", id)
}

type edgeSet map[[2]uint]bool

func (e edgeSet) Exists(_ context.Context, follower, followed uint) (bool, error) {
	return e[[2]uint{follower, followed}], nil
}

// fakeSender answers with one ticket per message; tokens listed in dead come
// back unregistered. When failAfter is positive only that many tickets are
// returned, together with an error.
type fakeSender struct {
	dead      map[string]bool
	failAfter int
	err       error
	calls     [][]push.Message
}

func (f *fakeSender) Send(_ context.Context, msgs []push.Message) ([]push.Ticket, error) {
	f.calls = append(f.calls, msgs)
	if f.err != nil && f.failAfter == 0 {
		return nil, f.err
	}
	tickets := make([]push.Ticket, 0, len(msgs))
	for _, m := range msgs {
		tk := push.Ticket{Status: push.StatusOK}
		if f.dead[m.To] {
			tk.Status = push.StatusError
			tk.Details.Error = push.ErrDeviceNotRegistered
		}
		tickets = append(tickets, tk)
		if f.failAfter > 0 && len(tickets) == f.failAfter {
			return tickets, f.err
		}
	}
	return tickets, nil
}

type capturePublisher struct {
	payloads map[uint][]string
}

func (c *capturePublisher) PublishUser(_ context.Context, userID uint, payload string) error {
	if c.payloads == nil {
		c.payloads = map[uint][]string{}
	}
	c.payloads[userID] = append(c.payloads[userID], payload)
	return nil
}

func strPtr(s string) *string { return &s }

type dispatcherFixture struct {
	tokens    *memTokens
	sender    *fakeSender
	follows   edgeSet
	publisher *capturePublisher
	d         *Dispatcher
}

func newDispatcherFixture(secret string) *dispatcherFixture {
	f := &dispatcherFixture{
		tokens: &memTokens{byUser: map[uint][]string{
			1: {"ExponentPushToken[a]", "not-a-token", "ExponentPushToken[dead]"},
		}},
		sender:    &fakeSender{dead: map[string]bool{"ExponentPushToken[dead]": true}},
		follows:   edgeSet{},
		publisher: &capturePublisher{},
	}
	f.d = NewDispatcher(DispatcherConfig{
		Secret:  secret,
		Tokens:  f.tokens,
		Follows: f.follows,
		Users: memUsers{
			1: {ID: 1, Username: strPtr("ana")},
			2: {ID: 2, Username: strPtr("ben")},
			3: {ID: 3, FirstName: "Cal", LastName: "Reyes"},
		},
		Sender:    f.sender,
		Publisher: f.publisher,
		Flags:     featureflags.Parse(""),
	})
	return f
}

func insert(recipient, actor uint, typ models.NotificationType) *Event {
	post := ID(10)
	return &Event{Type: EventInsert, Record: &Record{
		RecipientID: ID(recipient), ActorID: ID(actor), Type: typ, PostID: &post,
	}}
}

func TestDispatcher_SecretCheck(t *testing.T) {
	f := newDispatcherFixture("s3cret")

	res := f.d.Handle(context.Background(), "wrong", insert(1, 2, models.NotificationLike))
	assert.Equal(t, StateUnauthorized, res.State)
	assert.Empty(t, f.sender.calls)

	res = f.d.Handle(context.Background(), "s3cret", insert(1, 2, models.NotificationLike))
	assert.Equal(t, StateDispatched, res.State)

	open := newDispatcherFixture("")
	assert.True(t, open.d.Authorized(""))
}

func TestDispatcher_ShortCircuits(t *testing.T) {
	f := newDispatcherFixture("")
	ctx := context.Background()

	res := f.d.Handle(ctx, "", &Event{Type: "UPDATE", Record: &Record{RecipientID: 1, ActorID: 2}})
	assert.Equal(t, StateIgnored, res.State)
	assert.Equal(t, MsgIgnored, res.Message)

	res = f.d.Handle(ctx, "", &Event{Type: EventInsert})
	assert.Equal(t, StateInvalid, res.State)
	assert.Equal(t, MsgNoRecord, res.Message)

	res = f.d.Handle(ctx, "", insert(1, 1, models.NotificationLike))
	assert.Equal(t, StateSuppressed, res.State)
	assert.Equal(t, MsgSelf, res.Message)

	assert.Empty(t, f.sender.calls)
	assert.Empty(t, f.publisher.payloads)
}

func TestDispatcher_MalformedIDsAreAbsorbed(t *testing.T) {
	f := newDispatcherFixture("")

	ev, err := ParseEvent([]byte(`{"type":"INSERT","record":{"recipient_id":"abc","actor_id":2,"type":"like"}}`))
	require.NoError(t, err)

	res := f.d.Handle(context.Background(), "", ev)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, MsgSendFailed, res.Message)
	require.Error(t, res.Err)
	assert.True(t, models.IsCode(res.Err, models.CodeValidation))
	assert.Empty(t, f.sender.calls)
	assert.Empty(t, f.publisher.payloads)
}

func TestDispatcher_DeliversAndPrunes(t *testing.T) {
	f := newDispatcherFixture("")

	res := f.d.Handle(context.Background(), "", insert(1, 2, models.NotificationLike))
	require.Equal(t, StateDispatched, res.State)
	assert.Equal(t, MsgSent, res.Message)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Pruned)

	require.Len(t, f.sender.calls, 1)
	batch := f.sender.calls[0]
	require.Len(t, batch, 2, "invalid token is skipped")
	assert.Equal(t, "Gymvy", batch[0].Title)
	assert.Equal(t, "ben liked your post", batch[0].Body)
	assert.Equal(t, "default", batch[0].Sound)
	assert.Equal(t, uint(2), batch[0].Data["actorId"])

	assert.Equal(t, []string{"ExponentPushToken[dead]"}, f.tokens.deleted)
	assert.Len(t, f.publisher.payloads[1], 1)
}

func TestDispatcher_NoTokensIsNoop(t *testing.T) {
	f := newDispatcherFixture("")
	res := f.d.Handle(context.Background(), "", insert(2, 3, models.NotificationFollow))
	assert.Equal(t, StateDispatched, res.State)
	assert.Empty(t, f.sender.calls)
	assert.Len(t, f.publisher.payloads[2], 1)
}

func TestDispatcher_CommentLikeFollowGate(t *testing.T) {
	f := newDispatcherFixture("")
	ctx := context.Background()

	res := f.d.Handle(ctx, "", insert(1, 2, models.NotificationCommentLike))
	assert.Equal(t, StateSuppressed, res.State)
	assert.Empty(t, f.sender.calls)

	// Only the author following the liker opens the gate.
	f.follows[[2]uint{2, 1}] = true
	res = f.d.Handle(ctx, "", insert(1, 2, models.NotificationCommentLike))
	assert.Equal(t, StateSuppressed, res.State)

	f.follows[[2]uint{1, 2}] = true
	res = f.d.Handle(ctx, "", insert(1, 2, models.NotificationCommentLike))
	assert.Equal(t, StateDispatched, res.State)
	require.Len(t, f.sender.calls, 1)
	assert.Equal(t, "ben liked your comment", f.sender.calls[0][0].Body)
}

func TestDispatcher_CommentLikeGateDisabled(t *testing.T) {
	f := newDispatcherFixture("")
	f.d.flags = featureflags.Parse("comment_like_follow_gate=off")

	res := f.d.Handle(context.Background(), "", insert(1, 2, models.NotificationCommentLike))
	assert.Equal(t, StateDispatched, res.State)
}

func TestDispatcher_TransportFailureIsAbsorbed(t *testing.T) {
	f := newDispatcherFixture("")
	f.sender.err = errors.New("connection reset")

	res := f.d.Handle(context.Background(), "", insert(1, 2, models.NotificationLike))
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, MsgSendFailed, res.Message)
	assert.EqualError(t, res.Err, "connection reset")
	assert.Empty(t, f.tokens.deleted)
}

func TestDispatcher_PartialFailureSettlesCompletedTickets(t *testing.T) {
	f := newDispatcherFixture("")
	f.tokens.byUser[1] = []string{"ExponentPushToken[dead]", "ExponentPushToken[b]"}
	f.sender.err = errors.New("breaker open")
	f.sender.failAfter = 1

	res := f.d.Handle(context.Background(), "", insert(1, 2, models.NotificationLike))
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, res.Pruned)
	assert.Equal(t, []string{"ExponentPushToken[dead]"}, f.tokens.deleted)
}

func TestDispatcher_UnknownActorFallsBackToSomeone(t *testing.T) {
	f := newDispatcherFixture("")
	res := f.d.Handle(context.Background(), "", insert(1, 99, "mystery"))
	require.Equal(t, StateDispatched, res.State)
	assert.Equal(t, "Someone interacted with you", f.sender.calls[0][0].Body)
}

func TestDispatcher_TokenLookupFailure(t *testing.T) {
	f := newDispatcherFixture("")
	f.tokens.listErr = errors.New("db down")

	res := f.d.Handle(context.Background(), "", insert(1, 2, models.NotificationLike))
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, MsgSendFailed, res.Message)
}
