package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cursor marks a position in a stream ordered by (occurred_at DESC, event_id DESC).
// EventID is uuid.Nil for legacy timestamp-only cursors.
type Cursor struct {
	OccurredAt time.Time
	EventID    uuid.UUID
}

// legacyLayouts are accepted for bare timestamp cursors issued by older clients.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// HasEventID reports whether the cursor carries the event id tie-breaker.
func (c Cursor) HasEventID() bool {
	return c.EventID != uuid.Nil
}

// EncodeCursor returns the opaque cursor pointing just after e.
// Format: base64url(occurred_at RFC3339Nano + "|" + event_id).
func EncodeCursor(e Event) string {
	raw := e.OccurredAt.UTC().Format(time.RFC3339Nano) + "|" + e.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor or a bare ISO-8601 timestamp.
func DecodeCursor(s string) (Cursor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cursor{}, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}

	// base64url never contains ':', timestamps always do.
	if strings.Contains(s, ":") {
		return decodeLegacyCursor(s)
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: timestamp: %v", ErrInvalidCursor, err)
	}

	eventID, err := uuid.Parse(id)
	if err != nil || eventID == uuid.Nil {
		return Cursor{}, fmt.Errorf("%w: event id %q", ErrInvalidCursor, id)
	}

	return Cursor{OccurredAt: occurredAt.UTC(), EventID: eventID}, nil
}

func decodeLegacyCursor(s string) (Cursor, error) {
	// ISO-8601 allows a space between date and time.
	if len(s) > len("2006-01-02") && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	// Any other space is a "+" offset sign from an unescaped query string.
	s = strings.ReplaceAll(s, " ", "+")
	for _, layout := range legacyLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return Cursor{OccurredAt: ts.UTC()}, nil
		}
	}
	return Cursor{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrInvalidCursor, s)
}
