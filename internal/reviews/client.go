package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"k9vision/api/internal/config"
)

const fusionBaseURL = "https://api.yelp.com/v3"

// Review is the subset of a Yelp Fusion review the site displays.
type Review struct {
	ID          string  `json:"id"`
	Rating      float64 `json:"rating"`
	Text        string  `json:"text"`
	TimeCreated string  `json:"time_created"`
	URL         string  `json:"url"`
	User        struct {
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	} `json:"user"`
}

// Client fetches business reviews from the Yelp Fusion API. Without an
// API key it stays disabled and callers fall back to static content.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	businessID string
}

func New(cfg config.YelpConfig) *Client {
	return &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		baseURL:    fusionBaseURL,
		apiKey:     cfg.APIKey,
		businessID: cfg.BusinessID,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Fetch returns the three most relevant reviews and the business's
// total review count.
func (c *Client) Fetch(ctx context.Context) ([]Review, int, error) {
	url := fmt.Sprintf("%s/businesses/%s/reviews?limit=3&sort_by=yelp_sort", c.baseURL, c.businessID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build reviews request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch reviews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("yelp api: status %d: %s", resp.StatusCode, detail)
	}

	var payload struct {
		Reviews []Review `json:"reviews"`
		Total   int      `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("decode reviews: %w", err)
	}
	return payload.Reviews, payload.Total, nil
}
