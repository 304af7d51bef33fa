package model

// InstitutionFilter is the caller-owned filter specification for the
// universities table. Zero values mean "no constraint"; specified
// constraints combine with logical AND.
type InstitutionFilter struct {
	Country string `json:"country"` // exact, case-sensitive
	Type    string `json:"type"`    // exact
	City    string `json:"city"`    // exact

	// Search matches case-insensitively as a substring of any of the
	// configured search fields (name_ar, name_en, city): OR within the
	// group, AND with everything else.
	Search string `json:"search"`

	// Scholarship constrains the derived tri-state. Empty = unconstrained.
	Scholarship Availability `json:"scholarship"`

	// Tags requires every listed scholarship category to be present in
	// the record's own tag set.
	Tags []string `json:"tags"`
}

// ProgramFilter is the filter specification for the programs table,
// including constraints applied through the institution join.
type ProgramFilter struct {
	Level    string `json:"level"`    // exact
	Degree   string `json:"degree"`   // exact
	Field    string `json:"field"`    // exact
	Language string `json:"language"` // exact
	City     string `json:"city"`     // exact, institution's city when joined

	Search string `json:"search"` // substring over name_ar, name_en, city

	// Institution-owned constraints resolved through the uni_id join.
	Country         string `json:"country"`
	InstitutionType string `json:"institution_type"`
}

// SortKey names an explicit result ordering. The engine never reorders
// beyond what is requested; the default is source order.
type SortKey string

const (
	// SortNone preserves source order (post-deduplication).
	SortNone SortKey = ""
	// SortLocation orders by country, then city, then English name.
	// Used by the comparison view.
	SortLocation SortKey = "location"
)
