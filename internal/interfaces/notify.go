package interfaces

import (
	"context"

	"github.com/ternarybob/callwatch/internal/models"
)

// Notifier delivers one formatted message through a notification
// channel. Implementations return an error on unexpected HTTP status.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// CallSource provides the current batch of call events from the router
// syslog, newest first.
type CallSource interface {
	Calls(ctx context.Context) ([]models.CallEvent, error)
}

// PushService manages web-push credentials and subscriptions and
// delivers push payloads.
type PushService interface {
	// PublicKey returns the base64 VAPID public key handed to browsers.
	PublicKey() string

	// Upsert stores a subscription, replacing any existing record with
	// the same (destination name, endpoint) pair.
	Upsert(sub models.Subscription) error

	// Remove deletes the subscription with the given endpoint. The bool
	// reports whether a record was found.
	Remove(endpoint string) (bool, error)

	// Send delivers a payload to one subscription and returns the push
	// service's HTTP status code.
	Send(sub models.Subscription, payload []byte) (int, error)

	// Broadcast delivers a title/body notification to every
	// subscription registered for the destination. Per-subscription
	// failures are logged, not returned.
	Broadcast(destinationName, title, body string) error
}
