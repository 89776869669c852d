package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const discordAPIBase = "https://discord.com/api"

// discordMessage is the payload shared by webhook and bot delivery
type discordMessage struct {
	Content string `json:"content"`
}

// DiscordWebhookNotifier posts the message to a Discord webhook URL.
// Discord answers 204 on plain webhook posts and 200 with ?wait=true;
// both count as delivered.
type DiscordWebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewDiscordWebhookNotifier(url string) *DiscordWebhookNotifier {
	return &DiscordWebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *DiscordWebhookNotifier) Send(ctx context.Context, message string) error {
	status, err := postJSON(ctx, n.httpClient, n.url, nil, discordMessage{Content: message})
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("discord webhook failed (%d)", status)
	}
	return nil
}

// DiscordBotNotifier posts the message to a channel through the bot API
type DiscordBotNotifier struct {
	token      string
	channelID  string
	apiBase    string
	httpClient *http.Client
}

func NewDiscordBotNotifier(token, channelID string) *DiscordBotNotifier {
	return &DiscordBotNotifier{
		token:      token,
		channelID:  channelID,
		apiBase:    discordAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *DiscordBotNotifier) Send(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/channels/%s/messages", n.apiBase, n.channelID)
	headers := map[string]string{
		"Authorization": "Bot " + n.token,
	}
	status, err := postJSON(ctx, n.httpClient, url, headers, discordMessage{Content: message})
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("discord bot message failed (%d)", status)
	}
	return nil
}

// postJSON posts a JSON body and returns the response status code.
// Transport failures are errors; status interpretation is left to the
// caller since success codes differ per channel.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
