package ingest

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

const (
	maxFieldLen = 255

	// MaxEntities bounds the references one event may carry.
	MaxEntities = 100
)

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// CreateInput holds the parameters for recording an event.
type CreateInput struct {
	IdempotencyKey string
	OccurredAt     time.Time
	Type           string
	Actor          domain.Actor
	Entities       []domain.EntityRef
	Payload        json.RawMessage
	Trace          json.RawMessage

	// Hash overrides the computed fingerprint when set.
	Hash string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	errs = checkRequired(errs, "idempotency_key", i.IdempotencyKey)
	errs = checkRequired(errs, "type", i.Type)
	errs = checkRequired(errs, "actor.kind", i.Actor.Kind)
	errs = checkRequired(errs, "actor.id", i.Actor.ID)

	if i.OccurredAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "occurred_at", Message: "required"})
	}

	if !isJSONObject(i.Payload) {
		errs = append(errs, domain.FieldError{Field: "payload", Message: "must be a JSON object"})
	}
	if len(i.Trace) > 0 && string(i.Trace) != "null" && !isJSONObject(i.Trace) {
		errs = append(errs, domain.FieldError{Field: "trace", Message: "must be a JSON object"})
	}

	if len(i.Entities) > MaxEntities {
		errs = append(errs, domain.FieldError{Field: "entities", Message: "max " + strconv.Itoa(MaxEntities) + " items"})
	}
	for n, ref := range i.Entities {
		prefix := "entities[" + strconv.Itoa(n) + "]"
		errs = checkRequired(errs, prefix+".kind", ref.Kind)
		errs = checkRequired(errs, prefix+".id", ref.ID)
		if strings.Contains(ref.Kind, ":") {
			errs = append(errs, domain.FieldError{Field: prefix + ".kind", Message: "must not contain ':'"})
		}
	}

	if i.Hash != "" && !hashPattern.MatchString(i.Hash) {
		errs = append(errs, domain.FieldError{Field: "hash", Message: "must be 64 lowercase hex characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func checkRequired(errs []domain.FieldError, field, value string) []domain.FieldError {
	v := strings.TrimSpace(value)
	if v == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	if len(value) > maxFieldLen {
		return append(errs, domain.FieldError{Field: field, Message: "max 255 characters"})
	}
	return errs
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
