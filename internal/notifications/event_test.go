package notifications

import (
	"testing"

	"gymvy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent_FlexibleIDs(t *testing.T) {
	ev, err := ParseEvent([]byte(`{
		"type": "INSERT",
		"table": "Notifications",
		"record": {"recipient_id": "5", "actor_id": 6, "type": "comment", "post_id": 10, "comment_id": null},
		"old_record": null
	}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Record)
	assert.Equal(t, ID(5), ev.Record.RecipientID)
	assert.Equal(t, ID(6), ev.Record.ActorID)
	assert.Equal(t, models.NotificationComment, ev.Record.Type)
	assert.Equal(t, uint(10), *ev.Record.PostID.Ptr())
	assert.Nil(t, ev.Record.CommentID.Ptr())
}

func TestParseEvent_BadIDIsRecordError(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type":"INSERT","record":{"recipient_id":"abc","actor_id":1,"post_id":"x1"}}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Record)

	assert.Equal(t, ID(0), ev.Record.RecipientID)
	assert.Equal(t, ID(1), ev.Record.ActorID)
	assert.Nil(t, ev.Record.PostID)

	recErr := ev.Record.Err()
	require.Error(t, recErr)
	assert.True(t, models.IsCode(recErr, models.CodeValidation))
	assert.Contains(t, recErr.Error(), "recipient_id")
	assert.Contains(t, recErr.Error(), "post_id")
}

func TestParseEvent_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseEvent([]byte(`{"type":"INSERT","record":`))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tests := []struct {
		typ  models.NotificationType
		want string
	}{
		{models.NotificationLike, "ana liked your post"},
		{models.NotificationComment, "ana commented on your post"},
		{models.NotificationFollow, "ana started following you"},
		{models.NotificationTag, "ana tagged you in a post"},
		{models.NotificationCommentLike, "ana liked your comment"},
		{"workout_completed", "ana interacted with you"},
	}
	for _, tt := range tests {
		title, body := Render(tt.typ, "ana")
		assert.Equal(t, PushTitle, title)
		assert.Equal(t, tt.want, body)
	}
}
