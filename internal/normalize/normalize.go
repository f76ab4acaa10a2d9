// Package normalize converts loosely-typed scraper results into canonical
// Post records. The scraping service does not guarantee a stable schema
// across versions, so field extraction works over alias lists rather than
// fixed key names.
package normalize

import (
	"errors"
	"strings"

	"reels_monitor/internal/model"
)

// Rejection reasons. A rejected item is dropped; it is never retried.
var (
	ErrNotVideo          = errors.New("not a video post")
	ErrMissingIdentifier = errors.New("missing account identifier")
	ErrMissingURL        = errors.New("missing post url")
)

// Known key names per field, in priority order. The source has used
// different names across response versions; the first present non-empty
// value wins. Adding a new alias is a one-line change here.
var (
	usernameAliases = []string{"ownerUsername", "username", "ownerFullName"}
	urlAliases      = []string{"url", "postUrl"}
)

// Normalize converts one raw scraped item into a canonical video Post.
// Non-video items are rejected with ErrNotVideo, except carousels: when the
// top-level item is not itself tagged video, the first video child in
// childPosts is promoted, keeping the carousel's username, caption and
// timestamp but the child's own URL and media URL. A direct video tag wins
// over carousel inspection.
func Normalize(item map[string]any) (*model.Post, error) {
	media := item
	if model.ClassifyType(stringValue(item["type"])) != model.TypeVideo {
		child := firstVideoChild(item)
		if child == nil {
			return nil, ErrNotVideo
		}
		media = child
	}

	username := lookupAlias(item, usernameAliases)
	if username == "" {
		username = lastPathSegment(stringValue(item["inputUrl"]))
	}
	if username == "" {
		return nil, ErrMissingIdentifier
	}

	url := lookupAlias(media, urlAliases)
	if url == "" {
		url = lookupAlias(item, urlAliases)
	}
	if url == "" {
		return nil, ErrMissingURL
	}

	// An unparseable timestamp degrades to empty, never rejects the item.
	timestamp, _ := CanonicalTimestamp(item["timestamp"])

	return &model.Post{
		Username:  username,
		URL:       url,
		Type:      model.TypeVideo,
		Caption:   stringValue(item["caption"]),
		Timestamp: timestamp,
		MediaURL:  stringValue(media["videoUrl"]),
	}, nil
}

// firstVideoChild returns the first child item classified as video,
// or nil if the item has no carousel children or none qualify.
func firstVideoChild(item map[string]any) map[string]any {
	children, ok := item["childPosts"].([]any)
	if !ok {
		return nil
	}
	for _, c := range children {
		child, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if model.ClassifyType(stringValue(child["type"])) == model.TypeVideo {
			return child
		}
	}
	return nil
}

// lookupAlias returns the first present non-empty string value among keys.
func lookupAlias(item map[string]any, keys []string) string {
	for _, key := range keys {
		if v := stringValue(item[key]); v != "" {
			return v
		}
	}
	return ""
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func lastPathSegment(url string) string {
	url = strings.TrimRight(url, "/")
	if url == "" {
		return ""
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
