package leads

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"lead-dispatcher/internal/common/validation"
	"lead-dispatcher/internal/models"
)

// DossierOutputName is the structured output the assistant is configured
// to fill.
const DossierOutputName = "emergency_dossier"

// IsCallCompleted reports whether the event should enter the pipeline.
func IsCallCompleted(event *models.CallEvent) bool {
	return event != nil && event.Type == models.EventEndOfCallReport
}

func isDossierOutput(out models.StructuredOutput) bool {
	return out.Name == DossierOutputName || out.HasResult
}

// LocateResult returns the raw extraction result of the first structured
// output matching isDossierOutput, falling back to the legacy
// analysis.structuredData. It returns nil when neither exists.
func LocateResult(event *models.CallEvent) json.RawMessage {
	if event == nil {
		return nil
	}
	for _, out := range event.StructuredOutputs {
		if isDossierOutput(out) {
			return out.Result
		}
	}
	if len(event.Analysis.StructuredData) > 0 {
		return event.Analysis.StructuredData
	}
	return nil
}

// DecodeLead converts a raw result into a StructuredLead. Anything that is
// not a JSON object yields an empty lead.
func DecodeLead(raw json.RawMessage) models.StructuredLead {
	var lead models.StructuredLead
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return lead
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return lead
	}

	lead.Address = stringField(obj.Get("address"))
	lead.Severity = stringField(obj.Get("severity"))
	lead.SourceOfLoss = stringField(obj.Get("source_of_loss"))
	lead.CallerName = stringField(obj.Get("caller_name"))
	lead.SiteAccess = stringField(obj.Get("site_access"))
	lead.PhoneNumber = stringField(obj.Get("phone_number"))
	lead.InsuranceStatus = stringField(obj.Get("insurance_status"))
	lead.AffectedSurfaces = stringField(obj.Get("affected_surfaces"))
	lead.ServiceCategory = stringField(obj.Get("service_category"))

	lead.WaterStillFlowing = flagField(obj.Get("water_still_flowing"))
	lead.Owner = flagField(obj.Get("owner"))
	lead.IsPowerOff = flagField(obj.Get("is_power_off"))

	return lead
}

func stringField(r gjson.Result) models.Opt {
	switch r.Type {
	case gjson.String:
		return Sanitize(r.Str)
	case gjson.Number:
		if r.Num == 0 {
			return models.Opt{}
		}
		return Sanitize(formatNumber(r))
	}
	return models.Opt{}
}

// formatNumber keeps integer literals verbatim so long phone numbers do not
// lose digits through float64.
func formatNumber(r gjson.Result) string {
	if isInteger(r.Raw) {
		return r.Raw
	}
	return strconv.FormatFloat(r.Num, 'f', -1, 64)
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func flagField(r gjson.Result) models.Flag {
	switch r.Type {
	case gjson.True:
		return models.FlagOf(true)
	case gjson.False:
		return models.FlagOf(false)
	case gjson.Number:
		return models.FlagOf(r.Num != 0)
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(r.Str)) {
		case "true", "yes", "y", "1":
			return models.FlagOf(true)
		case "false", "no", "n", "0":
			return models.FlagOf(false)
		}
	}
	return models.Flag{}
}

const dossierSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "emergency_dossier",
	"type": "object",
	"properties": {
		"address":             {"type": ["string", "null"]},
		"severity":            {"type": ["string", "null"]},
		"source_of_loss":      {"type": ["string", "null"]},
		"caller_name":         {"type": ["string", "null"]},
		"site_access":         {"type": ["string", "null"]},
		"phone_number":        {"type": ["string", "number", "null"]},
		"insurance_status":    {"type": ["string", "null"]},
		"affected_surfaces":   {"type": ["string", "null"]},
		"service_category":    {"type": ["string", "null"]},
		"water_still_flowing": {"type": ["boolean", "null"]},
		"owner":               {"type": ["boolean", "null"]},
		"is_power_off":        {"type": ["boolean", "null"]}
	}
}`

var dossierValidator = validation.MustCompile(dossierSchema)

// CheckSchema validates a located result against the emergency_dossier
// schema. A nil result is trivially valid. Callers only log violations.
func CheckSchema(raw json.RawMessage) *validation.ValidationResult {
	if len(raw) == 0 {
		return &validation.ValidationResult{Valid: true}
	}
	return dossierValidator.ValidateJSON(string(raw))
}
