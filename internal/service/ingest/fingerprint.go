package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// Preimage returns the bytes hashed into an event fingerprint: the RFC 8785
// canonical payload, occurred_at in UTC, type, actor kind and actor id,
// joined by newlines. Entities and trace do not take part.
func Preimage(payload json.RawMessage, occurredAt time.Time, eventType string, actor domain.Actor) ([]byte, error) {
	canonical, err := jcs.Transform(payload)
	if err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}

	var b bytes.Buffer
	b.Write(canonical)
	for _, part := range []string{
		occurredAt.UTC().Format(time.RFC3339Nano),
		eventType,
		actor.Kind,
		actor.ID,
	} {
		b.WriteByte('\n')
		b.WriteString(part)
	}
	return b.Bytes(), nil
}

// Fingerprint returns the lowercase hex SHA-256 of the event preimage.
func Fingerprint(payload json.RawMessage, occurredAt time.Time, eventType string, actor domain.Actor) (string, error) {
	pre, err := Preimage(payload, occurredAt, eventType, actor)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(pre)
	return hex.EncodeToString(sum[:]), nil
}
