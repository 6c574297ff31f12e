package extraction

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Shape is a named JSON Schema that an extraction result must satisfy.
type Shape struct {
	name   string
	schema *gojsonschema.Schema
}

// NewShape compiles schemaJSON into a Shape.
func NewShape(name, schemaJSON string) (*Shape, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: shape %s: %v", ErrInvalidConfig, name, err)
	}
	return &Shape{name: name, schema: schema}, nil
}

// MustShape is like NewShape but panics on an invalid schema. It is meant
// for package-level shapes.
func MustShape(name, schemaJSON string) *Shape {
	shape, err := NewShape(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return shape
}

// Name returns the shape name used in errors and logs.
func (s *Shape) Name() string {
	return s.name
}

// validate checks document against the schema and reports every violation.
func (s *Shape) validate(document string) error {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return fmt.Errorf("schema validation failed: %v", violations)
	}
	return nil
}
