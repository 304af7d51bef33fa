package model

import (
	"github.com/bosala-platform/bosala-api/dataset"
)

// Institution represents one university record from the normalized
// universities table. All fields are strings; empty means unknown.
type Institution struct {
	ID                 string `json:"uni_id"`
	NameAr             string `json:"name_ar"`
	NameEn             string `json:"name_en"`
	Country            string `json:"country"`
	City               string `json:"city"`
	Type               string `json:"type"` // ownership type, open set ("Public", "Private", ...)
	Scholarship        string `json:"scholarship"`
	RankingSource      string `json:"ranking_source"`
	RankingValue       string `json:"ranking_value"` // opaque: rank, band, or descriptive text
	AccreditationNotes string `json:"accreditation_notes"`
	Website            string `json:"website"`
	AdmissionsURL      string `json:"admissions_url"`
	ProgramsURL        string `json:"programs_url"`

	// Per-category scholarship detail; populated only by exports that
	// carry the detail columns.
	ScholarshipLocal         string `json:"scholarship_local,omitempty"`
	ScholarshipGCC           string `json:"scholarship_gcc,omitempty"`
	ScholarshipInternational string `json:"scholarship_international,omitempty"`
	ScholarshipConditional   string `json:"scholarship_conditional,omitempty"`
}

// InstitutionFromRecord builds an Institution from a normalized record.
func InstitutionFromRecord(rec dataset.Record) Institution {
	return Institution{
		ID:                 rec["uni_id"],
		NameAr:             rec["name_ar"],
		NameEn:             rec["name_en"],
		Country:            rec["country"],
		City:               rec["city"],
		Type:               rec["type"],
		Scholarship:        rec["scholarship"],
		RankingSource:      rec["ranking_source"],
		RankingValue:       rec["ranking_value"],
		AccreditationNotes: rec["accreditation_notes"],
		Website:            rec["website"],
		AdmissionsURL:      rec["admissions_url"],
		ProgramsURL:        rec["programs_url"],

		ScholarshipLocal:         rec["scholarship_local"],
		ScholarshipGCC:           rec["scholarship_gcc"],
		ScholarshipInternational: rec["scholarship_international"],
		ScholarshipConditional:   rec["scholarship_conditional"],
	}
}

// ScholarshipAvailability derives the tri-state flag from the aggregate
// scholarship field.
func (i Institution) ScholarshipAvailability() Availability {
	return DeriveAvailability(i.Scholarship)
}

// ScholarshipTags returns the scholarship categories carried by the
// aggregate field, tolerating pipe or comma separators.
func (i Institution) ScholarshipTags() []string {
	return SplitTags(i.Scholarship)
}

// ScholarshipCategories normalizes both scholarship encodings into a
// per-category availability state. When the structured detail columns are
// absent the aggregate tri-state is reported for every category.
func (i Institution) ScholarshipCategories() map[string]Availability {
	detail := map[string]string{
		"local":         i.ScholarshipLocal,
		"gcc":           i.ScholarshipGCC,
		"international": i.ScholarshipInternational,
		"conditional":   i.ScholarshipConditional,
	}

	structured := false
	for _, v := range detail {
		if v != "" {
			structured = true
			break
		}
	}

	out := make(map[string]Availability, len(detail))
	if structured {
		for cat, v := range detail {
			out[cat] = DeriveAvailability(v)
		}
		return out
	}

	agg := i.ScholarshipAvailability()
	for cat := range detail {
		out[cat] = agg
	}
	return out
}

// Links returns the institution's named reference URLs, skipping absent ones.
func (i Institution) Links() map[string]string {
	links := make(map[string]string, 3)
	if i.Website != "" {
		links["website"] = i.Website
	}
	if i.AdmissionsURL != "" {
		links["admissions"] = i.AdmissionsURL
	}
	if i.ProgramsURL != "" {
		links["programs"] = i.ProgramsURL
	}
	return links
}
