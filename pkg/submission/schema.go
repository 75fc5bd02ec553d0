package submission

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// RecordSchemaName is the component schema records are validated against.
const RecordSchemaName = "IntakeRecord"

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPIDocument returns the embedded API description.
func OpenAPIDocument() []byte {
	return append([]byte(nil), openAPIDocument...)
}

var (
	schemaOnce sync.Once
	schemaRef  *openapi3.Schema
	schemaErr  error
)

// RecordSchema loads and validates the embedded document once and returns
// the IntakeRecord schema.
func RecordSchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		schemaRef, schemaErr = loadRecordSchema(context.Background(), openAPIDocument)
	})
	return schemaRef, schemaErr
}

func loadRecordSchema(ctx context.Context, raw []byte) (*openapi3.Schema, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("submission: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("submission: validate openapi document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("submission: openapi document has no components")
	}
	ref, ok := doc.Components.Schemas[RecordSchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("submission: schema %q not found", RecordSchemaName)
	}
	return ref.Value, nil
}

// ValidateRecord checks r against the IntakeRecord schema.
func ValidateRecord(r Record) error {
	schema, err := RecordSchema()
	if err != nil {
		return err
	}
	if err := schema.VisitJSON(map[string]any(r)); err != nil {
		return fmt.Errorf("submission: record does not match %s: %w", RecordSchemaName, err)
	}
	return nil
}
