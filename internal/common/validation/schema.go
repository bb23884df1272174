package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema. It is safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a Go value (struct, map) against the schema.
func (s *Schema) Validate(document interface{}) *ValidationResult {
	return s.validate(gojsonschema.NewGoLoader(document))
}

// ValidateJSON checks a raw JSON document against the schema.
func (s *Schema) ValidateJSON(raw string) *ValidationResult {
	return s.validate(gojsonschema.NewStringLoader(raw))
}

func (s *Schema) validate(loader gojsonschema.JSONLoader) *ValidationResult {
	res, err := s.schema.Validate(loader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, re := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format. Carrier SMS gateways
// (5551234567@txt.att.net) are ordinary addresses here.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
