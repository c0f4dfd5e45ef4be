// Package push delivers device notifications through the Expo push service.
package push

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

// Message is one notification addressed to one device token.
type Message struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound,omitempty"`
}

// Ticket status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrDeviceNotRegistered is the ticket error for a token the device no longer owns.
const ErrDeviceNotRegistered = "DeviceNotRegistered"

// Ticket is the delivery outcome for one message.
type Ticket struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

// Unregistered reports whether the destination token is dead.
func (t Ticket) Unregistered() bool {
	return t.Status == StatusError && t.Details.Error == ErrDeviceNotRegistered
}

// Sender accepts a batch and returns one ticket per message in input order.
// When err is non-nil the returned tickets cover a leading prefix of msgs.
type Sender interface {
	Send(ctx context.Context, msgs []Message) ([]Ticket, error)
}

var expoTokenPattern = regexp.MustCompile(`^Expo(nent)?PushToken\[.+\]$`)

// IsExpoPushToken reports whether token looks like an Expo device address.
func IsExpoPushToken(token string) bool {
	if expoTokenPattern.MatchString(token) {
		return true
	}
	_, err := uuid.Parse(token)
	return err == nil
}
