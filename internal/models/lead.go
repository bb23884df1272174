// internal/models/lead.go
package models

// Opt is an optional string. Present values are never empty.
type Opt struct {
	Value   string
	Present bool
}

func Some(v string) Opt {
	return Opt{Value: v, Present: true}
}

// Or returns the value, or fallback when absent.
func (o Opt) Or(fallback string) string {
	if o.Present {
		return o.Value
	}
	return fallback
}

// Flag is an optional boolean.
type Flag struct {
	Value   bool
	Present bool
}

func FlagOf(v bool) Flag {
	return Flag{Value: v, Present: true}
}

// True reports whether the flag is present and set.
func (f Flag) True() bool {
	return f.Present && f.Value
}

// StructuredLead holds the fields an assistant extracted during a call.
type StructuredLead struct {
	Address          Opt `json:"address"`
	Severity         Opt `json:"severity"`
	SourceOfLoss     Opt `json:"source_of_loss"`
	CallerName       Opt `json:"caller_name"`
	SiteAccess       Opt `json:"site_access"`
	PhoneNumber      Opt `json:"phone_number"`
	InsuranceStatus  Opt `json:"insurance_status"`
	AffectedSurfaces Opt `json:"affected_surfaces"`
	ServiceCategory  Opt `json:"service_category"`

	WaterStillFlowing Flag `json:"water_still_flowing"`
	Owner             Flag `json:"owner"`
	IsPowerOff        Flag `json:"is_power_off"`
}

type Category string

const (
	CategoryWaterEmergency Category = "water_emergency"
	CategoryNonEmergency   Category = "non_emergency"
	CategoryGeneralInquiry Category = "general_inquiry"
)

// Reason is the code returned with a skipped outcome.
type Reason string

const (
	// ReasonMissingAddress is no longer produced; kept so clients matching
	// on older responses still compile against the full set.
	ReasonMissingAddress   Reason = "missing_address"
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonGhostCall        Reason = "ghost_call_no_contact_info"
	ReasonDuplicateReport  Reason = "duplicate_report"
)

const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
)

// Outcome is the webhook response body.
type Outcome struct {
	Status string `json:"status"`
	Reason Reason `json:"reason,omitempty"`
}

func Success() Outcome {
	return Outcome{Status: StatusSuccess}
}

func Skipped(reason Reason) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}
