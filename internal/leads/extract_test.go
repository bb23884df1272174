package leads

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-dispatcher/internal/models"
)

func TestIsCallCompleted(t *testing.T) {
	tests := []struct {
		eventType string
		want      bool
	}{
		{"end-of-call-report", true},
		{"status-update", false},
		{"END-OF-CALL-REPORT", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCallCompleted(&models.CallEvent{Type: tt.eventType}))
		})
	}

	assert.False(t, IsCallCompleted(nil))
}

func TestLocateResult(t *testing.T) {
	legacy := json.RawMessage(`{"address": "legacy"}`)

	tests := []struct {
		name  string
		event *models.CallEvent
		want  string
	}{
		{
			name: "named output wins over earlier unnamed entry without result",
			event: &models.CallEvent{StructuredOutputs: []models.StructuredOutput{
				{ID: "a", Name: "other"},
				{ID: "b", Name: DossierOutputName, Result: json.RawMessage(`{"address": "named"}`), HasResult: true},
			}},
			want: `{"address": "named"}`,
		},
		{
			name: "first entry with a result wins in document order",
			event: &models.CallEvent{StructuredOutputs: []models.StructuredOutput{
				{ID: "z", Name: "summary_card", Result: json.RawMessage(`{"address": "first"}`), HasResult: true},
				{ID: "a", Name: DossierOutputName, Result: json.RawMessage(`{"address": "second"}`), HasResult: true},
			}},
			want: `{"address": "first"}`,
		},
		{
			name: "structured outputs beat legacy analysis",
			event: &models.CallEvent{
				StructuredOutputs: []models.StructuredOutput{
					{Name: DossierOutputName, Result: json.RawMessage(`{"address": "new"}`), HasResult: true},
				},
				Analysis: models.Analysis{StructuredData: legacy},
			},
			want: `{"address": "new"}`,
		},
		{
			name: "falls back to legacy analysis",
			event: &models.CallEvent{
				StructuredOutputs: []models.StructuredOutput{{Name: "other"}},
				Analysis:          models.Analysis{StructuredData: legacy},
			},
			want: string(legacy),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocateResult(tt.event)
			require.NotNil(t, got)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestLocateResult_NothingFound(t *testing.T) {
	assert.Nil(t, LocateResult(&models.CallEvent{}))
	assert.Nil(t, LocateResult(nil))
}

func TestDecodeLead_FullResult(t *testing.T) {
	raw := json.RawMessage(`{
		"address": "  742 Evergreen Terrace, Springfield ",
		"severity": "Critical",
		"source_of_loss": "Burst Pipe in Basement",
		"water_still_flowing": true,
		"owner": true,
		"caller_name": "Homer Simpson",
		"site_access": "Key under mat",
		"is_power_off": false,
		"phone_number": "+15550109988",
		"insurance_status": "State Farm",
		"affected_surfaces": "Hardwood floors, Drywall",
		"service_category": "water_emergency"
	}`)

	lead := DecodeLead(raw)

	assert.Equal(t, models.Some("742 Evergreen Terrace, Springfield"), lead.Address)
	assert.Equal(t, models.Some("Critical"), lead.Severity)
	assert.Equal(t, models.Some("Burst Pipe in Basement"), lead.SourceOfLoss)
	assert.Equal(t, models.Some("Homer Simpson"), lead.CallerName)
	assert.Equal(t, models.Some("Key under mat"), lead.SiteAccess)
	assert.Equal(t, models.Some("+15550109988"), lead.PhoneNumber)
	assert.Equal(t, models.Some("State Farm"), lead.InsuranceStatus)
	assert.Equal(t, models.Some("Hardwood floors, Drywall"), lead.AffectedSurfaces)
	assert.Equal(t, models.Some("water_emergency"), lead.ServiceCategory)
	assert.Equal(t, models.FlagOf(true), lead.WaterStillFlowing)
	assert.Equal(t, models.FlagOf(true), lead.Owner)
	assert.Equal(t, models.FlagOf(false), lead.IsPowerOff)
}

func TestDecodeLead_StringFieldTypes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Opt
	}{
		{"placeholder", `{"address": "null"}`, models.Opt{}},
		{"json null", `{"address": null}`, models.Opt{}},
		{"empty", `{"address": ""}`, models.Opt{}},
		{"integer", `{"address": 5551234567}`, models.Some("5551234567")},
		{"large integer keeps digits", `{"address": 15550109988123456789}`, models.Some("15550109988123456789")},
		{"float", `{"address": 12.5}`, models.Some("12.5")},
		{"exponent", `{"address": 1.5e3}`, models.Some("1500")},
		{"zero", `{"address": 0}`, models.Opt{}},
		{"boolean", `{"address": true}`, models.Opt{}},
		{"object", `{"address": {"street": "x"}}`, models.Opt{}},
		{"array", `{"address": ["x"]}`, models.Opt{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeLead(json.RawMessage(tt.raw)).Address)
		})
	}
}

func TestDecodeLead_FlagFieldTypes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Flag
	}{
		{"true", `{"owner": true}`, models.FlagOf(true)},
		{"false", `{"owner": false}`, models.FlagOf(false)},
		{"null", `{"owner": null}`, models.Flag{}},
		{"missing", `{}`, models.Flag{}},
		{"non-zero number", `{"owner": 1}`, models.FlagOf(true)},
		{"zero number", `{"owner": 0}`, models.FlagOf(false)},
		{"yes string", `{"owner": " Yes "}`, models.FlagOf(true)},
		{"no string", `{"owner": "no"}`, models.FlagOf(false)},
		{"unknown string", `{"owner": "unknown"}`, models.Flag{}},
		{"object", `{"owner": {}}`, models.Flag{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeLead(json.RawMessage(tt.raw)).Owner)
		})
	}
}

func TestDecodeLead_NotAnObject(t *testing.T) {
	for _, raw := range []string{``, `null`, `"text"`, `[1,2]`, `{broken`} {
		assert.Equal(t, models.StructuredLead{}, DecodeLead(json.RawMessage(raw)), raw)
	}
}

func TestCheckSchema(t *testing.T) {
	t.Run("valid result", func(t *testing.T) {
		res := CheckSchema(json.RawMessage(`{"address": "x", "phone_number": 5551234567, "owner": null}`))
		assert.True(t, res.Valid)
	})

	t.Run("wrong types", func(t *testing.T) {
		res := CheckSchema(json.RawMessage(`{"address": 12, "water_still_flowing": "yes"}`))
		assert.False(t, res.Valid)
		assert.Len(t, res.Errors, 2)
	})

	t.Run("not an object", func(t *testing.T) {
		assert.False(t, CheckSchema(json.RawMessage(`[]`)).Valid)
	})

	t.Run("nothing located", func(t *testing.T) {
		assert.True(t, CheckSchema(nil).Valid)
	})
}
