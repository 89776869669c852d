package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SlackNotifier posts the message to a Slack incoming webhook
type SlackNotifier struct {
	url        string
	httpClient *http.Client
}

func NewSlackNotifier(url string) *SlackNotifier {
	return &SlackNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *SlackNotifier) Send(ctx context.Context, message string) error {
	status, err := postJSON(ctx, n.httpClient, n.url, nil, map[string]string{"text": message})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("slack webhook failed (%d)", status)
	}
	return nil
}
