package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	eventsvc "github.com/heartmarshall/auditlog-backend/internal/service/event"
	"github.com/heartmarshall/auditlog-backend/internal/service/ingest"
	"github.com/heartmarshall/auditlog-backend/internal/service/timeline"
)

// ReplayedHeader is set to "true" when an ingest matched an existing event.
const ReplayedHeader = "Idempotent-Replayed"

type ingestService interface {
	Create(ctx context.Context, input ingest.CreateInput) (ingest.Result, error)
}

type eventService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Event, error)
	List(ctx context.Context, input eventsvc.ListInput) (domain.Page, error)
}

type timelineService interface {
	Timeline(ctx context.Context, input timeline.Input) (domain.Page, error)
}

// EventHandler serves the /v1 event endpoints.
type EventHandler struct {
	ingest   ingestService
	events   eventService
	timeline timelineService
	schema   *jsonschema.Schema
	maxBody  int64
	log      *slog.Logger
}

// NewEventHandler creates an EventHandler. Request bodies larger than
// maxBody bytes are rejected.
func NewEventHandler(
	ingest ingestService,
	events eventService,
	timeline timelineService,
	maxBody int64,
	logger *slog.Logger,
) (*EventHandler, error) {
	schema, err := compileEventSchema()
	if err != nil {
		return nil, err
	}
	return &EventHandler{
		ingest:   ingest,
		events:   events,
		timeline: timeline,
		schema:   schema,
		maxBody:  maxBody,
		log:      logger.With("handler", "event"),
	}, nil
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to read request body")
		return
	}

	if err := validateBody(h.schema, body); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req createEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	result, err := h.ingest.Create(r.Context(), req.toInput())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	status := http.StatusCreated
	if result.Status == domain.IngestReplayed {
		w.Header().Set(ReplayedHeader, "true")
		status = http.StatusOK
	}
	writeJSON(w, status, toEventResponse(result.Event))
}

// Get handles GET /v1/events/{event_id}. A malformed id is reported as 404
// since no event can have it.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("event_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// List handles GET /v1/events?type=&actor_id=&cursor=&limit=.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.events.List(r.Context(), eventsvc.ListInput{
		Type:    q.Get("type"),
		ActorID: q.Get("actor_id"),
		Cursor:  q.Get("cursor"),
		Limit:   limit,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page))
}

// Timeline handles GET /v1/timeline?entity=kind:id&cursor=&limit=.
func (h *EventHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.timeline.Timeline(r.Context(), timeline.Input{
		Entity: q.Get("entity"),
		Cursor: q.Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page))
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("limit", "must be an integer")
	}
	return n, nil
}
