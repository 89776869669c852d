package identity

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/callwatch/internal/models"
)

const (
	telnaviLabel   = "電話帳ナビ `telnavi.jp`"
	telnaviBaseURL = "https://telnavi.jp"

	lookupUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/109.0"
)

// Page titles look like "電話番号0312345678は〇〇株式会社"
var telnaviTitleRegex = regexp.MustCompile(`^電話番号\d+は(.+)$`)

// TelnaviStrategy scrapes the telnavi.jp reverse-lookup page for the
// number and extracts the registered name from the page title. Misses
// (non-200, no title match) are misses; transport failures surface as
// errors for the chain to log.
type TelnaviStrategy struct {
	baseURL    string
	httpClient *http.Client
}

func NewTelnaviStrategy() *TelnaviStrategy {
	return &TelnaviStrategy{
		baseURL: telnaviBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *TelnaviStrategy) Name() string {
	return telnaviLabel
}

func (s *TelnaviStrategy) Search(ctx context.Context, number string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/phone/%s", s.baseURL, number), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build telnavi request: %w", err)
	}
	req.Header.Set("User-Agent", lookupUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch telnavi page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse telnavi page: %w", err)
	}

	title := doc.Find("title").Text()
	match := telnaviTitleRegex.FindStringSubmatch(title)
	if match == nil {
		return nil, nil
	}

	return &models.Identity{
		Kind:   models.IdentityName,
		Name:   match[1],
		Source: telnaviLabel,
	}, nil
}
