package rest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

//go:embed schema/event_create.json
var eventCreateSchema []byte

const eventCreateSchemaURL = "https://auditlog.local/schema/event_create.json"

func compileEventSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(eventCreateSchemaURL, bytes.NewReader(eventCreateSchema)); err != nil {
		return nil, fmt.Errorf("load event schema: %w", err)
	}
	schema, err := c.Compile(eventCreateSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}
	return schema, nil
}

// validateBody checks raw JSON against schema and reports violations as
// field errors keyed by JSON pointer.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.NewValidationError("body", "invalid JSON")
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validate body: %w", err)
	}

	var fields []domain.FieldError
	for _, leaf := range leafCauses(verr) {
		field := strings.TrimPrefix(strings.ReplaceAll(leaf.InstanceLocation, "/", "."), ".")
		if field == "" {
			field = "body"
		}
		fields = append(fields, domain.FieldError{Field: field, Message: leaf.Message})
	}
	return domain.NewValidationErrors(fields)
}

func leafCauses(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leafCauses(c)...)
	}
	return out
}
