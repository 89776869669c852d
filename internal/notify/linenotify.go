package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const lineNotifyEndpoint = "https://notify-api.line.me/api/notify"

// LINENotifyNotifier posts the message to the LINE Notify API with a
// personal access token.
type LINENotifyNotifier struct {
	token      string
	endpoint   string
	httpClient *http.Client
}

func NewLINENotifyNotifier(token string) *LINENotifyNotifier {
	return &LINENotifyNotifier{
		token:      token,
		endpoint:   lineNotifyEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *LINENotifyNotifier) Send(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LINE Notify failed (%d)", resp.StatusCode)
	}
	return nil
}
