// Package source provides the external collaborators that supply raw post
// items for monitored accounts.
package source

import (
	"context"
	"net/http"
)

// RawItem is one loosely-typed record returned by a source. Its schema is
// source-version-dependent and must be treated as untrusted input.
type RawItem = map[string]any

// Source fetches raw post items for one account. The limit is a hint for the
// number of recent items wanted; sources may return more or fewer.
type Source interface {
	FetchPosts(ctx context.Context, username string, limit int) ([]RawItem, error)
}

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const userAgent = "ReelsMonitor/1.0"

// maxBodySize bounds response reads from either provider.
const maxBodySize = 10 * 1024 * 1024
