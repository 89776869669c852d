package notify

import (
	"fmt"

	"github.com/ternarybob/callwatch/internal/interfaces"
	"github.com/ternarybob/callwatch/internal/models"
)

// ForDestination builds the channel adapter for a destination's type.
// Config validation rejects unknown types at startup, so the error arm
// only fires on destinations that bypassed validation.
func ForDestination(destination *models.Destination, push interfaces.PushService) (interfaces.Notifier, error) {
	switch destination.Type {
	case models.DestinationDiscordWebhook:
		return NewDiscordWebhookNotifier(destination.WebhookURL), nil
	case models.DestinationDiscordBot:
		return NewDiscordBotNotifier(destination.Token, destination.ChannelID), nil
	case models.DestinationSlack:
		return NewSlackNotifier(destination.WebhookURL), nil
	case models.DestinationLINENotify:
		return NewLINENotifyNotifier(destination.Token), nil
	case models.DestinationWebPush:
		return NewWebPushNotifier(destination.Name, push), nil
	default:
		return nil, fmt.Errorf("unknown destination type %q", destination.Type)
	}
}
