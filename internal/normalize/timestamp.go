package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the canonical ISO-8601 UTC form used everywhere a post
// timestamp is stored or rendered.
const TimeLayout = "2006-01-02T15:04:05Z"

// ISO layouts accepted from the source, tried in order. Layouts without an
// offset are interpreted as UTC.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CanonicalTimestamp converts a source-provided timestamp of unknown concrete
// representation into the canonical UTC ISO-8601 form. Numeric values and
// numeric strings are interpreted as unix epoch seconds; millisecond inputs
// are not auto-detected. ISO strings carrying a non-UTC offset are converted
// to UTC. Returns ok=false when the value is unrecoverable.
func CanonicalTimestamp(v any) (s string, ok bool) {
	switch t := v.(type) {
	case float64:
		return fromEpoch(int64(t)), true
	case int:
		return fromEpoch(int64(t)), true
	case int64:
		return fromEpoch(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return fromEpoch(n), true
		}
		if f, err := t.Float64(); err == nil {
			return fromEpoch(int64(f)), true
		}
		return "", false
	case string:
		return fromString(t)
	default:
		return "", false
	}
}

func fromString(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return fromEpoch(n), true
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(TimeLayout), true
		}
	}
	return "", false
}

func fromEpoch(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(TimeLayout)
}
