package services

import (
	"fmt"
	"sort"

	"github.com/bosala-platform/bosala-api/model"
)

// ShortlistWeights are the additive score weights. The values are product
// choices, kept configurable rather than hard-coded at call sites.
type ShortlistWeights struct {
	ProgramMatch     int
	CountryMatch     int
	CityMatch        int
	ScholarshipMatch int
	SignalBonus      int
}

// DefaultShortlistWeights returns the stock weights.
func DefaultShortlistWeights() ShortlistWeights {
	return ShortlistWeights{
		ProgramMatch:     40,
		CountryMatch:     15,
		CityMatch:        10,
		ScholarshipMatch: 20,
		SignalBonus:      5,
	}
}

// maxReasons caps the human-readable reason list per entry.
const maxReasons = 3

// ShortlistEntry is one scored institution with its matching programs.
type ShortlistEntry struct {
	Institution model.Institution `json:"institution"`
	Score       int               `json:"score"`
	Reasons     []string          `json:"reasons"`
	Programs    []model.Program   `json:"programs,omitempty"`
}

// ScoreInstitution is the deterministic scoring function: a pure function
// of the institution, its filtered program subset, and the profile. It
// returns the additive score and at most three reason strings.
func ScoreInstitution(inst model.Institution, programs []model.Program, profile model.StudentProfile, w ShortlistWeights) (int, []string) {
	score := 0
	var reasons []string

	if len(programs) > 0 {
		score += w.ProgramMatch
		reasons = append(reasons, fmt.Sprintf("%d matching program(s)", len(programs)))
	}
	if profile.TargetCountry != "" && inst.Country == profile.TargetCountry {
		score += w.CountryMatch
		reasons = append(reasons, "in target country "+inst.Country)
	}
	if profile.PreferredCity != "" && inst.City == profile.PreferredCity {
		score += w.CityMatch
		reasons = append(reasons, "in preferred city "+inst.City)
	}
	if profile.WantsScholarship && inst.ScholarshipAvailability() == model.AvailabilityYes {
		score += w.ScholarshipMatch
		reasons = append(reasons, "scholarship available")
	}
	if n := profile.Signals(); n > 0 {
		// informational only: the student told us enough to judge fit
		score += n * w.SignalBonus
		reasons = append(reasons, "academic signals provided")
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return score, reasons
}

// ShortlistService builds scored top-N shortlists from the filter engine.
type ShortlistService struct {
	filters *FilterService
	weights ShortlistWeights
}

// NewShortlistService creates a shortlist service with the given weights.
func NewShortlistService(filters *FilterService, weights ShortlistWeights) *ShortlistService {
	return &ShortlistService{filters: filters, weights: weights}
}

// Build scores every institution matching the profile's hard filters and
// returns the top-N entries, descending by score, stable on ties.
//
// The candidate set is institutions filtered by target country and type;
// each candidate's program subset is the programs of that institution
// matching the profile's field of study. A missing program table degrades
// to institution-only scoring.
func (s *ShortlistService) Build(profile model.StudentProfile, topN int) ([]ShortlistEntry, error) {
	insts, err := s.filters.FilterInstitutions(model.InstitutionFilter{
		Country: profile.TargetCountry,
		Type:    profile.InstitutionType,
	}, model.SortNone)
	if err != nil {
		return nil, err
	}

	programsByUni := make(map[string][]model.Program)
	views, err := s.filters.FilterPrograms(model.ProgramFilter{Field: profile.FieldOfStudy})
	if err == nil {
		for _, v := range views {
			programsByUni[v.UniID] = append(programsByUni[v.UniID], v.Program)
		}
	}

	entries := make([]ShortlistEntry, 0, len(insts))
	for _, inst := range insts {
		programs := programsByUni[inst.ID]
		score, reasons := ScoreInstitution(inst, programs, profile, s.weights)
		entries = append(entries, ShortlistEntry{
			Institution: inst,
			Score:       score,
			Reasons:     reasons,
			Programs:    programs,
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Score > entries[b].Score
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}
