package leads

import (
	"strings"

	"lead-dispatcher/internal/models"
)

// Validate applies the rejection rules in order. ok is true when the lead
// should be dispatched.
func Validate(lead models.StructuredLead, phone models.Opt) (reason models.Reason, ok bool) {
	if !lead.Address.Present && !phone.Present {
		return models.ReasonGhostCall, false
	}
	if !lead.Severity.Present && !lead.SourceOfLoss.Present && !lead.WaterStillFlowing.Present {
		return models.ReasonInsufficientData, false
	}
	return "", true
}

// Classify buckets a lead by substring match on its service category.
func Classify(category models.Opt) models.Category {
	c := strings.ToLower(category.Value)
	switch {
	case strings.Contains(c, "water_emergency"):
		return models.CategoryWaterEmergency
	case strings.Contains(c, "mold"), strings.Contains(c, "fire"), strings.Contains(c, "non_emergency"):
		return models.CategoryNonEmergency
	default:
		return models.CategoryGeneralInquiry
	}
}
