package notify

import (
	"fmt"
	"strings"
	"time"

	"reels_monitor/internal/model"
)

const (
	// Telegram rejects messages longer than 4096 characters.
	maxMessageLen = 4096
	maxCaptionLen = 100
)

// FormatReport renders the newly discovered posts as a Telegram HTML message.
func FormatReport(posts []model.Post, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>MONITORING REPORT</b>\n<i>%s</i> | <b>%d</b> new posts\n",
		now.UTC().Format("02/01/2006 15:04 UTC"), len(posts))

	for _, p := range posts {
		fmt.Fprintf(&b, "\n@%s\n", escapeHTML(p.Username))
		if p.Caption != "" {
			fmt.Fprintf(&b, "%s\n", escapeHTML(truncate(p.Caption, maxCaptionLen)))
		}
		if p.Timestamp != "" {
			fmt.Fprintf(&b, "Posted: %s\n", p.Timestamp)
		}
		fmt.Fprintf(&b, "<a href=\"%s\">View post</a>\n", p.URL)
	}
	return b.String()
}

// escapeHTML escapes the characters Telegram's HTML parse mode reserves.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// splitMessage splits text into chunks below Telegram's message limit,
// breaking on line boundaries so HTML tags are never cut mid-tag.
func splitMessage(text string) []string {
	if len(text) <= maxMessageLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if current.Len()+len(line)+1 > maxMessageLen {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
				current.Reset()
			}
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
	}
	return chunks
}
