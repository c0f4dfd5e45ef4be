package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gymvy/internal/models"

	"github.com/goccy/go-json"
)

// EventInsert is the only event type that triggers delivery.
const EventInsert = "INSERT"

// Event is the row-change callback posted by the datastore.
type Event struct {
	Type      string          `json:"type"`
	Table     string          `json:"table,omitempty"`
	Schema    string          `json:"schema,omitempty"`
	Record    *Record         `json:"record"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// Record is the inserted notification row.
type Record struct {
	ID          ID                      `json:"id,omitempty"`
	RecipientID ID                      `json:"recipient_id"`
	ActorID     ID                      `json:"actor_id"`
	Type        models.NotificationType `json:"type"`
	PostID      *ID                     `json:"post_id,omitempty"`
	CommentID   *ID                     `json:"comment_id,omitempty"`

	// invalid holds id fields that did not parse. They are left zero or nil.
	invalid []error
}

// UnmarshalJSON decodes a record, keeping a malformed id as a per-field
// error instead of failing the whole event.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage         `json:"id"`
		RecipientID json.RawMessage         `json:"recipient_id"`
		ActorID     json.RawMessage         `json:"actor_id"`
		Type        models.NotificationType `json:"type"`
		PostID      json.RawMessage         `json:"post_id"`
		CommentID   json.RawMessage         `json:"comment_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{Type: raw.Type}
	r.ID = r.id("id", raw.ID)
	r.RecipientID = r.id("recipient_id", raw.RecipientID)
	r.ActorID = r.id("actor_id", raw.ActorID)
	r.PostID = r.optionalID("post_id", raw.PostID)
	r.CommentID = r.optionalID("comment_id", raw.CommentID)
	return nil
}

func (r *Record) id(field string, raw json.RawMessage) ID {
	var id ID
	if len(raw) == 0 {
		return 0
	}
	if err := id.UnmarshalJSON(raw); err != nil {
		r.invalid = append(r.invalid, fmt.Errorf("%s: %w", field, err))
		return 0
	}
	return id
}

func (r *Record) optionalID(field string, raw json.RawMessage) *ID {
	if id := r.id(field, raw); id != 0 {
		return &id
	}
	return nil
}

// Err reports the id fields that failed to parse, or nil.
func (r *Record) Err() error {
	if r == nil || len(r.invalid) == 0 {
		return nil
	}
	return models.NewValidationError(errors.Join(r.invalid...).Error())
}

// ID accepts a JSON number or a numeric string.
type ID uint

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	data = bytes.Trim(data, `"`)
	if len(data) == 0 {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", data)
	}
	*id = ID(v)
	return nil
}

// Ptr returns nil for a nil receiver, otherwise the id as *uint.
func (id *ID) Ptr() *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := uint(*id)
	return &v
}

// ParseEvent decodes a webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
