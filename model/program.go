package model

import (
	"github.com/bosala-platform/bosala-api/dataset"
)

// Program represents one academic offering within an institution.
type Program struct {
	ID           string `json:"program_id"`
	UniID        string `json:"uni_id"`
	Level        string `json:"level"`  // Bachelor's/Master's/Doctoral, open set
	Degree       string `json:"degree"` // e.g. BSc, MBA
	Field        string `json:"field"`
	NameAr       string `json:"name_ar"`
	NameEn       string `json:"name_en"`
	City         string `json:"city"` // may duplicate or override the institution's city
	Language     string `json:"language"`
	Duration     string `json:"duration"`
	Tuition      string `json:"tuition"`
	Requirements string `json:"admission_requirements"`
	URL          string `json:"url"`

	// Optional admission signals; english_score and math_min are
	// numeric-as-string and may be unparsable.
	EnglishTest  string `json:"english_test,omitempty"`
	EnglishScore string `json:"english_score,omitempty"`
	MathMin      string `json:"math_min,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ProgramFromRecord builds a Program from a normalized record.
func ProgramFromRecord(rec dataset.Record) Program {
	return Program{
		ID:           rec["program_id"],
		UniID:        rec["uni_id"],
		Level:        rec["level"],
		Degree:       rec["degree"],
		Field:        rec["field"],
		NameAr:       rec["name_ar"],
		NameEn:       rec["name_en"],
		City:         rec["city"],
		Language:     rec["language"],
		Duration:     rec["duration"],
		Tuition:      rec["tuition"],
		Requirements: rec["admission_requirements"],
		URL:          rec["url"],
		EnglishTest:  rec["english_test"],
		EnglishScore: rec["english_score"],
		MathMin:      rec["math_min"],
		Notes:        rec["notes"],
	}
}

// ProgramView is a program joined to its owning institution. Institution is
// nil when the uni_id does not resolve; the program is still served and
// institution-derived fields fall back to the program's own copies.
type ProgramView struct {
	Program
	Institution *Institution `json:"institution,omitempty"`
}

// InstitutionCountry resolves the country constraint through the join.
// The institution's value wins whenever the join resolved; programs carry
// no country column of their own to fall back on.
func (v ProgramView) InstitutionCountry() string {
	if v.Institution != nil {
		return v.Institution.Country
	}
	return ""
}

// InstitutionType resolves the ownership-type constraint through the join.
func (v ProgramView) InstitutionType() string {
	if v.Institution != nil {
		return v.Institution.Type
	}
	return ""
}

// InstitutionCity resolves the city constraint through the join, falling
// back to the program's redundantly stored city only when the joined
// institution is absent.
func (v ProgramView) InstitutionCity() string {
	if v.Institution != nil {
		return v.Institution.City
	}
	return v.City
}
