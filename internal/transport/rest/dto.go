package rest

import (
	"encoding/json"
	"time"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/internal/service/ingest"
)

type refDTO struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type createEventRequest struct {
	IdempotencyKey string          `json:"idempotency_key"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Type           string          `json:"type"`
	Actor          refDTO          `json:"actor"`
	Entities       []refDTO        `json:"entities"`
	Payload        json.RawMessage `json:"payload"`
	Trace          json.RawMessage `json:"trace"`
	Hash           string          `json:"hash"`
}

func (r createEventRequest) toInput() ingest.CreateInput {
	entities := make([]domain.EntityRef, len(r.Entities))
	for i, e := range r.Entities {
		entities[i] = domain.EntityRef{Kind: e.Kind, ID: e.ID}
	}
	return ingest.CreateInput{
		IdempotencyKey: r.IdempotencyKey,
		OccurredAt:     r.OccurredAt,
		Type:           r.Type,
		Actor:          domain.Actor{Kind: r.Actor.Kind, ID: r.Actor.ID},
		Entities:       entities,
		Payload:        r.Payload,
		Trace:          r.Trace,
		Hash:           r.Hash,
	}
}

type eventResponse struct {
	EventID        string          `json:"event_id"`
	TenantID       string          `json:"tenant_id"`
	OccurredAt     time.Time       `json:"occurred_at"`
	IngestedAt     time.Time       `json:"ingested_at"`
	Type           string          `json:"type"`
	Actor          refDTO          `json:"actor"`
	Entities       []refDTO        `json:"entities"`
	Payload        json.RawMessage `json:"payload"`
	Trace          json.RawMessage `json:"trace"`
	IdempotencyKey string          `json:"idempotency_key"`
	Hash           string          `json:"hash"`
}

func toEventResponse(e domain.Event) eventResponse {
	entities := make([]refDTO, len(e.Entities))
	for i, ref := range e.Entities {
		entities[i] = refDTO{Kind: ref.Kind, ID: ref.ID}
	}
	trace := e.Trace
	if len(trace) == 0 {
		trace = json.RawMessage("null")
	}
	return eventResponse{
		EventID:        e.ID.String(),
		TenantID:       e.TenantID,
		OccurredAt:     e.OccurredAt.UTC(),
		IngestedAt:     e.IngestedAt.UTC(),
		Type:           e.Type,
		Actor:          refDTO{Kind: e.Actor.Kind, ID: e.Actor.ID},
		Entities:       entities,
		Payload:        e.Payload,
		Trace:          trace,
		IdempotencyKey: e.IdempotencyKey,
		Hash:           e.Hash,
	}
}

type pageResponse struct {
	Events     []eventResponse `json:"events"`
	NextCursor *string         `json:"next_cursor"`
}

func toPageResponse(p domain.Page) pageResponse {
	events := make([]eventResponse, len(p.Events))
	for i, e := range p.Events {
		events[i] = toEventResponse(e)
	}
	resp := pageResponse{Events: events}
	if p.NextCursor != "" {
		resp.NextCursor = &p.NextCursor
	}
	return resp
}

type provisionTenantRequest struct {
	Name string `json:"name"`
}

type tenantResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	ClientID     string    `json:"client_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
}

func toTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt.UTC()}
}
