package leads

import (
	"strings"

	"lead-dispatcher/internal/models"
)

var placeholders = map[string]struct{}{
	"null":      {},
	"n/a":       {},
	"none":      {},
	"unknown":   {},
	"undefined": {},
}

// Sanitize trims s and maps empty strings and placeholder words the
// assistant emits for missing data to an absent value.
func Sanitize(s string) models.Opt {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return models.Opt{}
	}
	if _, ok := placeholders[strings.ToLower(trimmed)]; ok {
		return models.Opt{}
	}
	return models.Some(trimmed)
}

// minPhoneDigits is the shortest digit run accepted as a real number.
const minPhoneDigits = 7

// IsPlausiblePhone reports whether s contains at least seven consecutive
// ASCII digits.
func IsPlausiblePhone(s string) bool {
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			run++
			if run >= minPhoneDigits {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

// ResolvePhone prefers a plausible extracted number, then the caller ID,
// then whatever was extracted.
func ResolvePhone(extracted, callerID models.Opt) models.Opt {
	if extracted.Present && IsPlausiblePhone(extracted.Value) {
		return extracted
	}
	if callerID.Present {
		return callerID
	}
	return extracted
}
