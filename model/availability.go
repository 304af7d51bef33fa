package model

import "strings"

// Availability is the tri-state derived from a raw scholarship tag/flag
// field. The derivation is fixed: empty or the literal "Unknown" is
// Unknown, the literal "No" is No, any other non-empty value is Yes.
type Availability string

const (
	AvailabilityYes     Availability = "Yes"
	AvailabilityNo      Availability = "No"
	AvailabilityUnknown Availability = "Unknown"
)

// DeriveAvailability maps a raw field value onto the tri-state. Every place
// availability is queried or displayed goes through this one rule.
func DeriveAvailability(raw string) Availability {
	v := strings.TrimSpace(raw)
	switch {
	case v == "" || strings.EqualFold(v, string(AvailabilityUnknown)):
		return AvailabilityUnknown
	case strings.EqualFold(v, string(AvailabilityNo)):
		return AvailabilityNo
	default:
		return AvailabilityYes
	}
}

// ParseAvailability validates a user-supplied tri-state query value.
// Empty input means no constraint.
func ParseAvailability(v string) (Availability, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return "", true
	case "yes":
		return AvailabilityYes, true
	case "no":
		return AvailabilityNo, true
	case "unknown":
		return AvailabilityUnknown, true
	}
	return "", false
}

// SplitTags parses a small ordered tag set serialized as a pipe- or
// comma-joined string, trimming whitespace per tag.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	sep := ","
	if strings.Contains(raw, "|") {
		sep = "|"
	}
	parts := strings.Split(raw, sep)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
