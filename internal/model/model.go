// Package model defines the domain types used across the application.
package model

import (
	"strings"
	"time"
)

// PostType classifies the media kind of a scraped post.
type PostType string

// Supported post types. Only TypeVideo is eligible for persistence.
const (
	TypeVideo    PostType = "video"
	TypeImage    PostType = "image"
	TypeCarousel PostType = "carousel"
	TypeOther    PostType = "other"
)

// ClassifyType maps a source-provided type indicator to a PostType.
// The scraping service tags items "Video", "Image" or "Sidecar" (carousel);
// anything else, including an absent tag, classifies as other.
func ClassifyType(raw string) PostType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video":
		return TypeVideo
	case "image":
		return TypeImage
	case "sidecar", "carousel":
		return TypeCarousel
	default:
		return TypeOther
	}
}

// Post is the canonical record persisted for a monitored account's video post.
// (Username, URL) is the natural key. Timestamp is the post's publication time
// as a canonical ISO-8601 UTC string; empty means unknown.
type Post struct {
	ID        int64
	Username  string
	URL       string
	Type      PostType
	Caption   string
	Timestamp string
	MediaURL  string
	ScrapedAt time.Time
}
