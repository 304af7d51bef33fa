package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/bosala-platform/bosala-api/dataset"
	"github.com/bosala-platform/bosala-api/model"
)

// Facets are the distinct values present per filterable field of the
// unfiltered set, computed once per load for populating choice controls.
type Facets map[string][]string

// FilterService is the filter-and-match engine over the dataset store.
// Filtering is pure over an immutable snapshot; the service only caches
// the materialized models and facets per snapshot version.
type FilterService struct {
	store *dataset.Store

	mu           sync.Mutex
	uniVersion   int64
	institutions []model.Institution
	uniFacets    Facets
	byID         map[string]int

	programVersion int64
	programs       []model.Program
	programFacets  Facets
}

// NewFilterService creates a new filter engine over the store.
func NewFilterService(store *dataset.Store) *FilterService {
	return &FilterService{store: store}
}

// Institutions returns the full normalized institution set in source order.
func (s *FilterService) Institutions() ([]model.Institution, error) {
	if err := s.loadInstitutions(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Institution, len(s.institutions))
	copy(out, s.institutions)
	return out, nil
}

// InstitutionByID looks up one institution. The second return reports
// whether it exists.
func (s *FilterService) InstitutionByID(id string) (model.Institution, bool, error) {
	if err := s.loadInstitutions(); err != nil {
		return model.Institution{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return model.Institution{}, false, nil
	}
	return s.institutions[idx], true, nil
}

// FilterInstitutions applies the filter specification, AND across fields.
func (s *FilterService) FilterInstitutions(f model.InstitutionFilter, sortKey model.SortKey) ([]model.Institution, error) {
	all, err := s.Institutions()
	if err != nil {
		return nil, err
	}

	out := make([]model.Institution, 0, len(all))
	for _, inst := range all {
		if MatchInstitution(inst, f) {
			out = append(out, inst)
		}
	}
	SortInstitutions(out, sortKey)
	return out, nil
}

// InstitutionFacets returns the distinct-value lists of the unfiltered
// institution set.
func (s *FilterService) InstitutionFacets() (Facets, error) {
	if err := s.loadInstitutions(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uniFacets, nil
}

// Compare returns the selected institutions in the comparison-view order
// (country, then city, then English name). Unknown ids are skipped.
func (s *FilterService) Compare(ids []string) ([]model.Institution, error) {
	if err := s.loadInstitutions(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Institution, 0, len(ids))
	for _, id := range ids {
		if idx, ok := s.byID[id]; ok {
			out = append(out, s.institutions[idx])
		}
	}
	SortInstitutions(out, model.SortLocation)
	return out, nil
}

// Programs returns the full normalized program set joined to owning
// institutions (left join: unmatched programs keep a nil Institution).
// A missing program table is an error for this view only.
func (s *FilterService) Programs() ([]model.ProgramView, error) {
	if err := s.loadPrograms(); err != nil {
		return nil, err
	}
	// The institution table is optional for program browsing: without it
	// every join is simply unmatched.
	_ = s.loadInstitutions()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ProgramView, 0, len(s.programs))
	for _, p := range s.programs {
		view := model.ProgramView{Program: p}
		if idx, ok := s.byID[p.UniID]; ok {
			inst := s.institutions[idx]
			view.Institution = &inst
		}
		out = append(out, view)
	}
	return out, nil
}

// FilterPrograms applies the program filter specification, including the
// through-join institution constraints.
func (s *FilterService) FilterPrograms(f model.ProgramFilter) ([]model.ProgramView, error) {
	all, err := s.Programs()
	if err != nil {
		return nil, err
	}

	out := make([]model.ProgramView, 0, len(all))
	for _, view := range all {
		if MatchProgram(view, f) {
			out = append(out, view)
		}
	}
	return out, nil
}

// ProgramFacets returns the distinct-value lists of the unfiltered
// program set.
func (s *FilterService) ProgramFacets() (Facets, error) {
	if err := s.loadPrograms(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.programFacets, nil
}

// MatchInstitution reports whether one institution satisfies every
// specified constraint.
func MatchInstitution(inst model.Institution, f model.InstitutionFilter) bool {
	if f.Country != "" && inst.Country != f.Country {
		return false
	}
	if f.Type != "" && inst.Type != f.Type {
		return false
	}
	if f.City != "" && inst.City != f.City {
		return false
	}
	if f.Search != "" && !matchSearch(f.Search, inst.NameAr, inst.NameEn, inst.City) {
		return false
	}
	if f.Scholarship != "" && inst.ScholarshipAvailability() != f.Scholarship {
		return false
	}
	if len(f.Tags) > 0 && !containsAllTags(inst.ScholarshipTags(), f.Tags) {
		return false
	}
	return true
}

// MatchProgram reports whether one joined program row satisfies every
// specified constraint.
func MatchProgram(view model.ProgramView, f model.ProgramFilter) bool {
	if f.Level != "" && view.Level != f.Level {
		return false
	}
	if f.Degree != "" && view.Degree != f.Degree {
		return false
	}
	if f.Field != "" && view.Field != f.Field {
		return false
	}
	if f.Language != "" && view.Language != f.Language {
		return false
	}
	if f.City != "" && view.InstitutionCity() != f.City {
		return false
	}
	if f.Search != "" && !matchSearch(f.Search, view.NameAr, view.NameEn, view.City) {
		return false
	}
	if f.Country != "" && view.InstitutionCountry() != f.Country {
		return false
	}
	if f.InstitutionType != "" && view.InstitutionType() != f.InstitutionType {
		return false
	}
	return true
}

// SortInstitutions orders the slice by the explicit sort key. SortNone
// leaves source order untouched. Sorting is stable.
func SortInstitutions(insts []model.Institution, key model.SortKey) {
	if key != model.SortLocation {
		return
	}
	sort.SliceStable(insts, func(a, b int) bool {
		if insts[a].Country != insts[b].Country {
			return insts[a].Country < insts[b].Country
		}
		if insts[a].City != insts[b].City {
			return insts[a].City < insts[b].City
		}
		return insts[a].NameEn < insts[b].NameEn
	})
}

// matchSearch is the case-insensitive substring group: a single query
// satisfied by any of the fields.
func matchSearch(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// containsAllTags reports whether every requested tag is present in the
// record's own tag set. Tag comparison trims whitespace and ignores case.
func containsAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, t := range want {
		if !set[strings.ToLower(strings.TrimSpace(t))] {
			return false
		}
	}
	return true
}

// loadInstitutions refreshes the materialized institution models and
// facets when the store served a new snapshot.
func (s *FilterService) loadInstitutions() error {
	records, version, err := s.store.Universities()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version == s.uniVersion && s.institutions != nil {
		return nil
	}

	insts := make([]model.Institution, 0, len(records))
	byID := make(map[string]int, len(records))
	for _, rec := range records {
		inst := model.InstitutionFromRecord(rec)
		byID[inst.ID] = len(insts)
		insts = append(insts, inst)
	}

	facets := Facets{
		"country": distinct(insts, func(i model.Institution) string { return i.Country }),
		"type":    distinct(insts, func(i model.Institution) string { return i.Type }),
		"city":    distinct(insts, func(i model.Institution) string { return i.City }),
	}

	s.uniVersion = version
	s.institutions = insts
	s.byID = byID
	s.uniFacets = facets
	return nil
}

// loadPrograms refreshes the materialized program models and facets.
func (s *FilterService) loadPrograms() error {
	records, version, err := s.store.Programs()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version == s.programVersion && s.programs != nil {
		return nil
	}

	programs := make([]model.Program, 0, len(records))
	for _, rec := range records {
		programs = append(programs, model.ProgramFromRecord(rec))
	}

	facets := Facets{
		"level":    distinct(programs, func(p model.Program) string { return p.Level }),
		"degree":   distinct(programs, func(p model.Program) string { return p.Degree }),
		"field":    distinct(programs, func(p model.Program) string { return p.Field }),
		"language": distinct(programs, func(p model.Program) string { return p.Language }),
		"city":     distinct(programs, func(p model.Program) string { return p.City }),
	}

	s.programVersion = version
	s.programs = programs
	s.programFacets = facets
	return nil
}

// distinct collects the sorted non-empty distinct values of one field.
func distinct[T any](items []T, get func(T) string) []string {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		if v := get(it); v != "" {
			set[v] = true
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
