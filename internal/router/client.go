package router

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/models"
)

// Client fetches the dashboard syslog from a Yamaha NVR510-class VoIP
// router and turns it into call events.
type Client struct {
	ip         string
	username   string
	password   string
	records    int
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewClient creates a syslog client for the configured router
func NewClient(cfg *common.RouterConfig, records int, logger arbor.ILogger) *Client {
	if records <= 0 {
		records = 100
	}
	return &Client{
		ip:       cfg.IP,
		username: cfg.Username,
		password: cfg.Password,
		records:  records,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchSyslog retrieves the most recent syslog records as normalized
// plain text, one record per line block. A non-200 response is an
// error and abandons the current polling cycle.
func (c *Client) FetchSyslog(ctx context.Context) (string, error) {
	url := fmt.Sprintf("http://%s/dashboard/syslog_data.csv?num=%d", c.ip, c.records)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build syslog request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch syslog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch syslog: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read syslog body: %w", err)
	}

	return NormalizeSyslog(string(body)), nil
}

// NormalizeSyslog cleans the raw dashboard CSV: spaces arrive as
// &nbsp;, line breaks vary between \r and \r\n, stray <br> tags are
// mixed in, and the first line is a header.
func NormalizeSyslog(raw string) string {
	text := strings.ReplaceAll(raw, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "<br>", "")
	text = strings.ReplaceAll(text, "\r\n", "\r")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

// Calls fetches the syslog and extracts SIP call events in log order
// (newest first).
func (c *Client) Calls(ctx context.Context) ([]models.CallEvent, error) {
	text, err := c.FetchSyslog(ctx)
	if err != nil {
		return nil, err
	}

	lines := ParseSyslog(text)
	calls := ExtractCalls(lines)

	c.logger.Debug().
		Int("syslog_lines", len(lines)).
		Int("calls", len(calls)).
		Msg("Syslog fetched")

	return calls, nil
}
