package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const defaultAPIBase = "https://api.apify.com"

// ApifyClient fetches recent posts through an Apify scraping actor, using the
// synchronous run endpoint that returns the run's dataset items directly.
type ApifyClient struct {
	client  HTTPClient
	baseURL string
	token   string
	actor   string
}

// NewApifyClient creates an ApifyClient for the given actor (for example
// "apify~instagram-post-scraper").
func NewApifyClient(client HTTPClient, token, actor string) *ApifyClient {
	return &ApifyClient{
		client:  client,
		baseURL: defaultAPIBase,
		token:   token,
		actor:   actor,
	}
}

type actorInput struct {
	Username     []string `json:"username"`
	ResultsLimit int      `json:"resultsLimit"`
	ResultsType  string   `json:"resultsType"`
}

// FetchPosts runs the actor for one account and returns the dataset items.
func (c *ApifyClient) FetchPosts(ctx context.Context, username string, limit int) ([]RawItem, error) {
	input := actorInput{
		Username:     []string{username},
		ResultsLimit: limit,
		ResultsType:  "videos",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(c.actor), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var items []RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return items, nil
}
