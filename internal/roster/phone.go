// Package roster normalizes player contact details.
package roster

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "US"

// NormalizePhone returns raw in E.164 form, or "" when it is not a valid
// number. Numbers without a country code are read in region.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "@") {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// FormatPhone renders an E.164 number for display, falling back to the input.
func FormatPhone(e164 string) string {
	number, err := phonenumbers.Parse(e164, DefaultRegion)
	if err != nil {
		return e164
	}
	region := phonenumbers.GetRegionCodeForNumber(number)
	if region == DefaultRegion {
		return phonenumbers.Format(number, phonenumbers.NATIONAL)
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// NormalizeEmail lowercases and trims an address. It does not validate it.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
