package leads

import (
	"fmt"
	"strings"
	"text/template"

	"lead-dispatcher/internal/common/errors"
	"lead-dispatcher/internal/models"
)

type dossierTemplate struct {
	subject *template.Template
	body    *template.Template
}

var funcs = template.FuncMap{
	"yesNo": func(f models.Flag, yes, no string) string {
		if f.True() {
			return yes
		}
		return no
	},
}

const waterEmergencyBody = `NEW EMERGENCY WATER DAMAGE DOSSIER
----------------------------------
Caller Name: {{or .CallerName "Unknown"}}
Phone: {{or .Phone "N/A"}}
Address: {{or .Address "N/A"}}
Owner: {{yesNo .Owner "Yes" "No/Unknown"}}

CRITICAL DETAILS
----------------
Water Still Flowing: {{yesNo .WaterStillFlowing "YES" "No"}}
Power Off: {{yesNo .IsPowerOff "Yes" "No"}}
Severity: {{or .Severity "N/A"}}
Source of Loss: {{or .SourceOfLoss "N/A"}}
Affected Surfaces: {{or .AffectedSurfaces "N/A"}}

LOGISTICS
---------
Insurance: {{or .Insurance "Unknown"}}
Site Access: {{or .SiteAccess "N/A"}}

TRANSCRIPT SUMMARY:
{{or .Summary "N/A"}}
`

const nonEmergencyBody = `NEW SERVICE LEAD
----------------
Caller Name: {{or .CallerName "Unknown"}}
Phone: {{or .Phone "N/A"}}
Address: {{or .Address "N/A"}}
Owner: {{yesNo .Owner "Yes" "No/Unknown"}}
Service Category: {{or .ServiceCategory "Unknown"}}

DETAILS
-------
Source of Loss: {{or .SourceOfLoss "N/A"}}
Severity: {{or .Severity "N/A"}}
Affected Surfaces: {{or .AffectedSurfaces "N/A"}}
Water Still Flowing: {{yesNo .WaterStillFlowing "Yes" "No"}}
Power Off: {{yesNo .IsPowerOff "Yes" "No"}}

LOGISTICS
---------
Insurance: {{or .Insurance "Unknown"}}
Site Access: {{or .SiteAccess "N/A"}}

TRANSCRIPT SUMMARY:
{{or .Summary "N/A"}}
`

const generalInquiryBody = `NEW GENERAL INQUIRY
-------------------
Caller Name: {{or .CallerName "Unknown"}}
Phone: {{or .Phone "N/A"}}
Address: {{or .Address "N/A"}}
Service Category: {{or .ServiceCategory "Unknown"}}

DETAILS
-------
Severity: {{or .Severity "N/A"}}
Source of Loss: {{or .SourceOfLoss "N/A"}}
Water Still Flowing: {{yesNo .WaterStillFlowing "Yes" "No"}}

TRANSCRIPT SUMMARY:
{{or .Summary "N/A"}}
`

var templates = map[models.Category]dossierTemplate{
	models.CategoryWaterEmergency: mustTemplate("water_emergency",
		`🚨 EMERGENCY LEAD: {{or .Address "N/A"}}`, waterEmergencyBody),
	models.CategoryNonEmergency: mustTemplate("non_emergency",
		`📋 NEW LEAD: {{or .Address "N/A"}}`, nonEmergencyBody),
	models.CategoryGeneralInquiry: mustTemplate("general_inquiry",
		`📞 GENERAL INQUIRY: {{or .CallerName .Phone "Unknown"}}`, generalInquiryBody),
}

func mustTemplate(name, subject, body string) dossierTemplate {
	return dossierTemplate{
		subject: template.Must(template.New(name + "_subject").Funcs(funcs).Option("missingkey=error").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Funcs(funcs).Option("missingkey=error").Parse(body)),
	}
}

// dossierView flattens a lead for the templates. Absent strings are empty
// so the templates' "or" fallbacks apply.
type dossierView struct {
	CallerName       string
	Phone            string
	Address          string
	Severity         string
	SourceOfLoss     string
	AffectedSurfaces string
	Insurance        string
	SiteAccess       string
	ServiceCategory  string
	Summary          string

	Owner             models.Flag
	WaterStillFlowing models.Flag
	IsPowerOff        models.Flag
}

// Render produces the subject and plaintext body for a lead. Unknown
// categories render with the general inquiry template.
func Render(lead models.StructuredLead, phone, summary models.Opt, category models.Category) (string, string, error) {
	tmpl, ok := templates[category]
	if !ok {
		tmpl = templates[models.CategoryGeneralInquiry]
	}

	view := dossierView{
		CallerName:        lead.CallerName.Value,
		Phone:             phone.Value,
		Address:           lead.Address.Value,
		Severity:          lead.Severity.Value,
		SourceOfLoss:      lead.SourceOfLoss.Value,
		AffectedSurfaces:  lead.AffectedSurfaces.Value,
		Insurance:         lead.InsuranceStatus.Value,
		SiteAccess:        lead.SiteAccess.Value,
		ServiceCategory:   lead.ServiceCategory.Value,
		Summary:           summary.Value,
		Owner:             lead.Owner,
		WaterStillFlowing: lead.WaterStillFlowing,
		IsPowerOff:        lead.IsPowerOff,
	}

	var subject, body strings.Builder
	if err := tmpl.subject.Execute(&subject, view); err != nil {
		return "", "", errors.NewTemplateRenderFailedError(string(category), fmt.Errorf("subject: %w", err))
	}
	if err := tmpl.body.Execute(&body, view); err != nil {
		return "", "", errors.NewTemplateRenderFailedError(string(category), fmt.Errorf("body: %w", err))
	}
	return subject.String(), body.String(), nil
}
