package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseEntityRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    EntityRef
		wantErr bool
	}{
		{in: "order:123", want: EntityRef{Kind: "order", ID: "123"}},
		{in: "urn:isbn:0451450523", want: EntityRef{Kind: "urn", ID: "isbn:0451450523"}},
		{in: "order", wantErr: true},
		{in: ":123", wantErr: true},
		{in: "order:", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseEntityRef(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidEntityReference) {
				t.Errorf("ParseEntityRef(%q) error = %v, want ErrInvalidEntityReference", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEntityRef(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseEntityRef(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("String() = %q, want %q", got.String(), tc.in)
		}
	}
}

func TestDedupeEntityRefs(t *testing.T) {
	t.Parallel()

	in := []EntityRef{
		{Kind: "order", ID: "1"},
		{Kind: "customer", ID: "9"},
		{Kind: "order", ID: "1"},
		{Kind: "order", ID: "2"},
	}
	got := DedupeEntityRefs(in)

	want := []EntityRef{
		{Kind: "order", ID: "1"},
		{Kind: "customer", ID: "9"},
		{Kind: "order", ID: "2"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if DedupeEntityRefs(nil) != nil {
		t.Error("nil input should return nil")
	}
}

func TestAttachEntities(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	events := []Event{{ID: a}, {ID: b}}
	AttachEntities(events, map[uuid.UUID][]EntityRef{
		a: {{Kind: "order", ID: "1"}},
	})

	if len(events[0].Entities) != 1 {
		t.Errorf("event a: expected 1 entity, got %d", len(events[0].Entities))
	}
	if events[1].Entities != nil {
		t.Errorf("event b: expected no entities, got %v", events[1].Entities)
	}

	ids := EventIDs(events)
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("EventIDs = %v", ids)
	}
}

func TestIngestStatus_String(t *testing.T) {
	t.Parallel()

	if IngestCreated.String() != "created" || IngestReplayed.String() != "replayed" {
		t.Errorf("unexpected strings: %s, %s", IngestCreated, IngestReplayed)
	}
	if IngestStatus(0).String() != "unknown" {
		t.Errorf("zero status = %s", IngestStatus(0))
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{{ID: uuid.New(), OccurredAt: at.Add(time.Minute)}, {ID: uuid.New(), OccurredAt: at}}

	last := NewPage(events, false)
	if last.NextCursor != "" {
		t.Errorf("final page should have no cursor, got %q", last.NextCursor)
	}

	more := NewPage(events, true)
	c, err := DecodeCursor(more.NextCursor)
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if c.EventID != events[1].ID || !c.OccurredAt.Equal(at) {
		t.Errorf("cursor = %+v, want last event", c)
	}

	if NewPage(nil, true).NextCursor != "" {
		t.Error("empty page should have no cursor")
	}
}
