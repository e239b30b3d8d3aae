package intelmesh

import (
	"fmt"
	"time"
)

// Timestamps cross the wire as RFC3339 with an explicit UTC offset, for
// example "2021-12-24T17:50:08+03:00". Decoding keeps the offset the server
// sent instead of normalizing to UTC; encoding keeps the offset carried by
// the time.Time (UTC prints as "Z").

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid RFC3339 timestamp %q: %w", s, err)
	}
	return t, nil
}
