package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actor identifies who performed the recorded action.
type Actor struct {
	Kind string
	ID   string
}

// EntityRef points at a business entity an event relates to.
type EntityRef struct {
	Kind string
	ID   string
}

// String renders the reference in its "kind:id" wire form.
func (r EntityRef) String() string {
	return r.Kind + ":" + r.ID
}

// ParseEntityRef parses a "kind:id" reference. The kind ends at the first
// colon, so ids may themselves contain colons.
func ParseEntityRef(s string) (EntityRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || kind == "" || id == "" {
		return EntityRef{}, fmt.Errorf("%w: expected kind:id, got %q", ErrInvalidEntityReference, s)
	}
	return EntityRef{Kind: kind, ID: id}, nil
}

// DedupeEntityRefs drops repeated references, keeping first-seen order.
func DedupeEntityRefs(refs []EntityRef) []EntityRef {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[EntityRef]struct{}, len(refs))
	out := make([]EntityRef, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Event is an immutable audit record owned by a single tenant.
type Event struct {
	ID             uuid.UUID
	TenantID       string
	OccurredAt     time.Time
	IngestedAt     time.Time
	Type           string
	Actor          Actor
	Entities       []EntityRef
	Payload        json.RawMessage
	Trace          json.RawMessage
	IdempotencyKey string
	Hash           string
}

// IngestStatus tells the caller whether an ingest stored a new event or
// matched an existing one.
type IngestStatus int

const (
	IngestCreated IngestStatus = iota + 1
	IngestReplayed
)

func (s IngestStatus) String() string {
	switch s {
	case IngestCreated:
		return "created"
	case IngestReplayed:
		return "replayed"
	default:
		return "unknown"
	}
}

// EventFilter narrows a tenant's event list. Zero fields do not filter.
type EventFilter struct {
	Type    string
	ActorID string
	Cursor  *Cursor
	Limit   int
}

// Page is one slice of a reverse-chronological event stream.
// NextCursor is empty when the stream is exhausted.
type Page struct {
	Events     []Event
	NextCursor string
}

// NewPage builds a page from rows fetched with a limit+1 probe. The cursor
// points past the last event and is set only when hasMore is true.
func NewPage(events []Event, hasMore bool) Page {
	p := Page{Events: events}
	if hasMore && len(events) > 0 {
		p.NextCursor = EncodeCursor(events[len(events)-1])
	}
	return p
}

// AttachEntities fills Entities on each event from refs keyed by event id.
func AttachEntities(events []Event, refs map[uuid.UUID][]EntityRef) {
	for i := range events {
		events[i].Entities = refs[events[i].ID]
	}
}

// EventIDs returns the ids of events in order.
func EventIDs(events []Event) []uuid.UUID {
	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
