package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["to", "subject"],
	"properties": {
		"to": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"subject": {"type": "string", "minLength": 1}
	}
}`

func TestSchema_Validate(t *testing.T) {
	s, err := Compile(testSchema)
	require.NoError(t, err)

	t.Run("valid go value", func(t *testing.T) {
		res := s.Validate(map[string]interface{}{
			"to":      []string{"a@example.com"},
			"subject": "hello",
		})
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("empty recipients and missing subject", func(t *testing.T) {
		res := s.Validate(map[string]interface{}{
			"to": []string{},
		})
		assert.False(t, res.Valid)
		assert.True(t, res.HasErrors("to"))
		assert.NotEmpty(t, res.GetErrorMessages())
	})

	t.Run("raw json", func(t *testing.T) {
		res := s.ValidateJSON(`{"to": ["x@example.com"], "subject": ""}`)
		assert.False(t, res.Valid)
		assert.True(t, res.HasErrors("subject"))
	})

	t.Run("unparseable json", func(t *testing.T) {
		res := s.ValidateJSON(`{"to": [`)
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "INVALID_DOCUMENT", res.Errors[0].Code)
	})
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not json`) })
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"owner@example.com", true},
		{"5551234567@txt.att.net", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"no-at-sign", false},
		{"a@b", false},
		{"a b@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.in))
		})
	}
}
