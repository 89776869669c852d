package models

// DestinationType selects the outbound notification channel.
type DestinationType string

const (
	DestinationDiscordWebhook DestinationType = "discord-webhook"
	DestinationDiscordBot     DestinationType = "discord-bot"
	DestinationSlack          DestinationType = "slack"
	DestinationLINENotify     DestinationType = "line-notify"
	DestinationWebPush        DestinationType = "web-push"
)

// Condition holds per-field regex patterns matched against a CallDetail.
// Empty fields are unconstrained; all non-empty fields must match.
type Condition struct {
	Direction    string `toml:"direction" json:"direction,omitempty"`
	SelfNumber   string `toml:"self_number" json:"self_number,omitempty"`
	CallerNumber string `toml:"caller_number" json:"caller_number,omitempty"`
	Status       string `toml:"status" json:"status,omitempty"`
}

// Destination is one configured notification target. Which credential
// fields are required depends on Type:
//
//	discord-webhook: WebhookURL
//	discord-bot:     Token + ChannelID
//	slack:           WebhookURL
//	line-notify:     Token
//	web-push:        none (subscriptions are keyed by Name)
type Destination struct {
	Type       DestinationType `toml:"type" json:"type"`
	Name       string          `toml:"name" json:"name"`
	WebhookURL string          `toml:"webhook_url" json:"webhook_url,omitempty"`
	Token      string          `toml:"token" json:"token,omitempty"`
	ChannelID  string          `toml:"channel_id" json:"channel_id,omitempty"`
	Condition  Condition       `toml:"condition" json:"condition"`
}

// Self labels the local line/number that received or placed a call.
type Self struct {
	Name      string    `toml:"name" json:"name"`
	Condition Condition `toml:"condition" json:"condition"`
}
