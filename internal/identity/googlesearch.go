package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/models"
)

const (
	googleSearchLabel  = "Google検索"
	googleSearchAPIURL = "https://www.googleapis.com/customsearch/v1"

	maxSearchItems = 3
)

// customSearchResponse is the subset of the Custom Search API response
// this strategy reads.
type customSearchResponse struct {
	SearchInformation struct {
		FormattedTotalResults string `json:"formattedTotalResults"`
	} `json:"searchInformation"`
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// GoogleSearchStrategy is the last resort in the chain: a quoted exact
// search for the number, restricted to Japanese results. Inactive
// (always a miss) unless API key and engine ID are configured.
type GoogleSearchStrategy struct {
	config     *common.GoogleSearchConfig
	apiURL     string
	httpClient *http.Client
}

func NewGoogleSearchStrategy(config *common.GoogleSearchConfig) *GoogleSearchStrategy {
	return &GoogleSearchStrategy{
		config: config,
		apiURL: googleSearchAPIURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *GoogleSearchStrategy) Name() string {
	return googleSearchLabel
}

func (s *GoogleSearchStrategy) Search(ctx context.Context, number string) (*models.Identity, error) {
	if s.config.Key == "" || s.config.CX == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", s.config.Key)
	params.Set("cx", s.config.CX)
	params.Set("lr", "lang_ja")
	params.Set("q", fmt.Sprintf("%q", number))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.apiURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", lookupUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var apiResp customSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(apiResp.Items) == 0 {
		return nil, nil
	}

	items := apiResp.Items
	if len(items) > maxSearchItems {
		items = items[:maxSearchItems]
	}

	results := make([]models.SearchItem, len(items))
	for i, item := range items {
		results[i] = models.SearchItem{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		}
	}

	return &models.Identity{
		Kind:   models.IdentitySearch,
		Count:  apiResp.SearchInformation.FormattedTotalResults,
		Items:  results,
		Source: googleSearchLabel,
	}, nil
}
