package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSBridge is an alternative provider that reads an account's posts from an
// RSS bridge service (for example an RSSHub instance serving per-account reel
// feeds). Bridge feeds are expected to carry video posts only, so every entry
// is tagged as a video item.
type RSSBridge struct {
	client      HTTPClient
	urlTemplate string
}

// NewRSSBridge creates an RSSBridge. urlTemplate must contain a single %s
// placeholder for the account username.
func NewRSSBridge(client HTTPClient, urlTemplate string) *RSSBridge {
	return &RSSBridge{
		client:      client,
		urlTemplate: urlTemplate,
	}
}

// FetchPosts downloads and parses the account's bridge feed and adapts its
// entries into raw items.
func (b *RSSBridge) FetchPosts(ctx context.Context, username string, limit int) ([]RawItem, error) {
	feedURL := fmt.Sprintf(b.urlTemplate, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var items []RawItem
	for _, entry := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		item := RawItem{
			"username": username,
			"type":     "Video",
			"url":      entry.Link,
			"caption":  entry.Title,
		}
		if entry.PublishedParsed != nil {
			item["timestamp"] = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return items, nil
}
