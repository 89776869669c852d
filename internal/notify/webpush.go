package notify

import (
	"context"
	"strings"

	"github.com/ternarybob/callwatch/internal/interfaces"
)

// WebPushNotifier fans the message out to every browser subscribed to
// the destination. Messages arrive with chat-style decoration; pushes
// carry a plain title (first line) and body (the rest).
type WebPushNotifier struct {
	destinationName string
	push            interfaces.PushService
}

func NewWebPushNotifier(destinationName string, push interfaces.PushService) *WebPushNotifier {
	return &WebPushNotifier{
		destinationName: destinationName,
		push:            push,
	}
}

func (n *WebPushNotifier) Send(_ context.Context, message string) error {
	title, body, ok := SplitPushMessage(message)
	if !ok {
		return nil
	}
	return n.push.Broadcast(n.destinationName, title, body)
}

// SplitPushMessage derives a push title and body from a formatted
// message. Single-line messages produce nothing to push.
func SplitPushMessage(message string) (title, body string, ok bool) {
	rawTitle, rawBody, found := strings.Cut(message, "\n")
	if !found {
		return "", "", false
	}
	return stripDecoration(strings.ReplaceAll(rawTitle, "☎ ", "")), stripDecoration(rawBody), true
}

func stripDecoration(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	return strings.TrimSpace(s)
}
