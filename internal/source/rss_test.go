package source

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test-only fixture loading
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func TestRSSBridgeFetchPosts(t *testing.T) {
	xml := loadFixture(t, "../../testdata/sample_feed.xml")

	tests := []struct {
		name      string
		transport *mockTransport
		limit     int
		want      []RawItem
		wantErr   bool
	}{
		{
			name:      "maps feed entries to raw video items",
			transport: &mockTransport{body: xml, statusCode: 200},
			limit:     2,
			want: []RawItem{
				{
					"username":  "acct",
					"type":      "Video",
					"url":       "https://instagram.com/p/first",
					"caption":   "First reel caption",
					"timestamp": "2024-05-01T12:00:00Z",
				},
				{
					"username":  "acct",
					"type":      "Video",
					"url":       "https://instagram.com/p/second",
					"caption":   "Second reel caption",
					"timestamp": "2024-04-30T18:30:00Z",
				},
			},
		},
		{
			name:      "zero limit returns all entries",
			transport: &mockTransport{body: xml, statusCode: 200},
			limit:     0,
			want: []RawItem{
				{
					"username":  "acct",
					"type":      "Video",
					"url":       "https://instagram.com/p/first",
					"caption":   "First reel caption",
					"timestamp": "2024-05-01T12:00:00Z",
				},
				{
					"username":  "acct",
					"type":      "Video",
					"url":       "https://instagram.com/p/second",
					"caption":   "Second reel caption",
					"timestamp": "2024-04-30T18:30:00Z",
				},
				{
					"username":  "acct",
					"type":      "Video",
					"url":       "https://instagram.com/p/third",
					"caption":   "Third reel caption",
					"timestamp": "2024-04-29T08:15:00Z",
				},
			},
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "gone", statusCode: 410},
			limit:     2,
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			limit:     2,
			wantErr:   true,
		},
		{
			name:      "invalid feed",
			transport: &mockTransport{body: "not a feed", statusCode: 200},
			limit:     2,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRSSBridge(tt.transport, "https://bridge.example.com/instagram/%s/reels")
			items, err := b.FetchPosts(context.Background(), "acct", tt.limit)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, items); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRSSBridgeURL(t *testing.T) {
	transport := &mockTransport{body: loadFixture(t, "../../testdata/sample_feed.xml"), statusCode: 200}
	b := NewRSSBridge(transport, "https://bridge.example.com/instagram/%s/reels")

	if _, err := b.FetchPosts(context.Background(), "someaccount", 1); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := "https://bridge.example.com/instagram/someaccount/reels"
	if got := transport.lastReq.URL.String(); got != want {
		t.Errorf("feed url mismatch: got %q, want %q", got, want)
	}
}
