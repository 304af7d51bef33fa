package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bosala-platform/bosala-api/dataset"
	"github.com/bosala-platform/bosala-api/model"
)

const testUniversities = `uni_id,name_ar,name_en,country,city,type,scholarship,ranking_source,ranking_value,accreditation_notes,website,admissions_url,programs_url
qu-1,جامعة الدوحة,Doha University,Qatar,Doha,Public,"Local, GCC",QS,350,,https://qu.example,,
du-1,جامعة دبي,Dubai Institute,UAE,Dubai,Private,No,,,,https://du.example,,
qp-1,كلية الدوحة الأهلية,Doha Private College,Qatar,Doha,Private,,,,,,,
`

const testPrograms = `program_id,uni_id,level,degree,field,name_ar,name_en,city,language,duration,tuition,admission_requirements,url
cs-1,qu-1,Bachelor's,BSc,Computer Science,علوم الحاسب,Computer Science,Doha,English,4 years,,,
ba-1,du-1,Bachelor's,BBA,Business,إدارة الأعمال,Business Administration,Dubai,English,4 years,,,
or-1,ghost-9,Master's,MSc,Computer Science,علوم البيانات,Data Science,Sharjah,English,2 years,,,
`

func newTestFilterService(t *testing.T) *FilterService {
	t.Helper()
	dir := t.TempDir()

	unisPath := filepath.Join(dir, "universities.csv")
	if err := os.WriteFile(unisPath, []byte(testUniversities), 0644); err != nil {
		t.Fatal(err)
	}
	programsPath := filepath.Join(dir, "programs.csv")
	if err := os.WriteFile(programsPath, []byte(testPrograms), 0644); err != nil {
		t.Fatal(err)
	}

	return NewFilterService(dataset.NewStore(unisPath, programsPath))
}

func institutionIDs(insts []model.Institution) []string {
	ids := make([]string, len(insts))
	for i, inst := range insts {
		ids[i] = inst.ID
	}
	return ids
}

func TestFilterByCountryScenario(t *testing.T) {
	// Qatar/Doha/Public, UAE/Dubai/Private, Qatar/Doha/Private filtered by
	// country=Qatar yields exactly the two Qatar rows, independent of type.
	s := newTestFilterService(t)

	got, err := s.FilterInstitutions(model.InstitutionFilter{Country: "Qatar"}, model.SortNone)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 institutions, got %v", institutionIDs(got))
	}
	for _, inst := range got {
		if inst.Country != "Qatar" {
			t.Errorf("unexpected row %s (%s)", inst.ID, inst.Country)
		}
	}
}

func TestFilterANDComposition(t *testing.T) {
	s := newTestFilterService(t)

	combined, err := s.FilterInstitutions(model.InstitutionFilter{Country: "Qatar", Type: "Private"}, model.SortNone)
	if err != nil {
		t.Fatal(err)
	}

	byCountry, _ := s.FilterInstitutions(model.InstitutionFilter{Country: "Qatar"}, model.SortNone)
	byType, _ := s.FilterInstitutions(model.InstitutionFilter{Type: "Private"}, model.SortNone)

	// combined result must be exactly the intersection of the
	// single-field results
	inCountry := map[string]bool{}
	for _, inst := range byCountry {
		inCountry[inst.ID] = true
	}
	inType := map[string]bool{}
	for _, inst := range byType {
		inType[inst.ID] = true
	}

	want := 0
	for id := range inCountry {
		if inType[id] {
			want++
		}
	}
	if len(combined) != want {
		t.Fatalf("combined = %v, intersection size %d", institutionIDs(combined), want)
	}
	for _, inst := range combined {
		if !inCountry[inst.ID] || !inType[inst.ID] {
			t.Errorf("%s not in both single-field results", inst.ID)
		}
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	s := newTestFilterService(t)

	// "doha" matches the city of qu-1/qp-1 and the Arabic name of qp-1;
	// matching any configured search field satisfies the constraint.
	got, err := s.FilterInstitutions(model.InstitutionFilter{Search: "doha"}, model.SortNone)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("search 'doha' matched %v, want qu-1 and qp-1", institutionIDs(got))
	}

	// Arabic query hits only the name fields
	got, err = s.FilterInstitutions(model.InstitutionFilter{Search: "دبي"}, model.SortNone)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "du-1" {
		t.Fatalf("search 'دبي' matched %v, want du-1", institutionIDs(got))
	}
}

func TestScholarshipTriStateFilter(t *testing.T) {
	s := newTestFilterService(t)

	cases := []struct {
		availability model.Availability
		want         []string
	}{
		{model.AvailabilityYes, []string{"qu-1"}},
		{model.AvailabilityNo, []string{"du-1"}},
		{model.AvailabilityUnknown, []string{"qp-1"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.availability), func(t *testing.T) {
			got, err := s.FilterInstitutions(model.InstitutionFilter{Scholarship: tc.availability}, model.SortNone)
			if err != nil {
				t.Fatal(err)
			}
			ids := institutionIDs(got)
			if len(ids) != len(tc.want) || ids[0] != tc.want[0] {
				t.Errorf("got %v, want %v", ids, tc.want)
			}
		})
	}
}

func TestScholarshipTagFilter(t *testing.T) {
	s := newTestFilterService(t)

	got, err := s.FilterInstitutions(model.InstitutionFilter{Tags: []string{"GCC"}}, model.SortNone)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "qu-1" {
		t.Fatalf("tag GCC matched %v, want qu-1", institutionIDs(got))
	}

	// every requested tag must be present
	got, _ = s.FilterInstitutions(model.InstitutionFilter{Tags: []string{"GCC", "International"}}, model.SortNone)
	if len(got) != 0 {
		t.Fatalf("tag set {GCC, International} matched %v, want none", institutionIDs(got))
	}
}

func TestFilterPreservesSourceOrder(t *testing.T) {
	s := newTestFilterService(t)

	got, err := s.FilterInstitutions(model.InstitutionFilter{}, model.SortNone)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"qu-1", "du-1", "qp-1"}
	ids := institutionIDs(got)
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("source order not preserved: %v", ids)
		}
	}
}

func TestSortLocationOrdering(t *testing.T) {
	s := newTestFilterService(t)

	got, err := s.FilterInstitutions(model.InstitutionFilter{}, model.SortLocation)
	if err != nil {
		t.Fatal(err)
	}
	// country, then city, then English name
	want := []string{"qp-1", "qu-1", "du-1"}
	ids := institutionIDs(got)
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("location sort = %v, want %v", ids, want)
		}
	}
}

func TestProgramJoinAndFallback(t *testing.T) {
	s := newTestFilterService(t)

	views, err := s.Programs()
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 program rows, got %d", len(views))
	}

	byID := map[string]model.ProgramView{}
	for _, v := range views {
		byID[v.ID] = v
	}

	// resolved join uses the institution's own values
	if v := byID["cs-1"]; v.Institution == nil || v.InstitutionCountry() != "Qatar" {
		t.Errorf("cs-1 join: %+v", v.Institution)
	}

	// unmatched reference is retained with a nil institution; the city
	// falls back to the program's own copy
	orphan := byID["or-1"]
	if orphan.Institution != nil {
		t.Error("or-1 should not resolve")
	}
	if orphan.InstitutionCity() != "Sharjah" {
		t.Errorf("or-1 city fallback = %q", orphan.InstitutionCity())
	}
	if orphan.InstitutionCountry() != "" {
		t.Errorf("or-1 country = %q, want empty", orphan.InstitutionCountry())
	}
}

func TestMatchProgramCityUsesJoinedInstitution(t *testing.T) {
	inst := model.Institution{ID: "qu-1", Country: "Qatar", City: "Doha"}
	// The program row carries a stale city copy; the resolved
	// institution's value wins.
	joined := model.ProgramView{
		Program:     model.Program{ID: "cs-9", UniID: "qu-1", City: "Al Wakrah"},
		Institution: &inst,
	}
	if !MatchProgram(joined, model.ProgramFilter{City: "Doha"}) {
		t.Error("city filter must match the institution's city when the join resolves")
	}
	if MatchProgram(joined, model.ProgramFilter{City: "Al Wakrah"}) {
		t.Error("city filter must not match the program's stale copy")
	}

	// Orphan rows fall back to the program's own copy.
	orphan := model.ProgramView{
		Program: model.Program{ID: "or-9", UniID: "ghost-1", City: "Sharjah"},
	}
	if !MatchProgram(orphan, model.ProgramFilter{City: "Sharjah"}) {
		t.Error("orphan city filter must use the program's own copy")
	}
}

func TestFilterProgramsThroughJoin(t *testing.T) {
	s := newTestFilterService(t)

	got, err := s.FilterPrograms(model.ProgramFilter{Country: "Qatar"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "cs-1" {
		t.Fatalf("through-join country filter matched %d rows", len(got))
	}

	got, err = s.FilterPrograms(model.ProgramFilter{Field: "Computer Science"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("field filter matched %d rows, want 2", len(got))
	}
}

func TestInstitutionFacets(t *testing.T) {
	s := newTestFilterService(t)

	facets, err := s.InstitutionFacets()
	if err != nil {
		t.Fatal(err)
	}

	wantCountries := []string{"Qatar", "UAE"}
	if got := facets["country"]; len(got) != 2 || got[0] != wantCountries[0] || got[1] != wantCountries[1] {
		t.Errorf("country facet = %v, want %v", got, wantCountries)
	}
	wantTypes := []string{"Private", "Public"}
	if got := facets["type"]; len(got) != 2 || got[0] != wantTypes[0] || got[1] != wantTypes[1] {
		t.Errorf("type facet = %v, want %v", got, wantTypes)
	}
}

func TestCompareOrdersByLocation(t *testing.T) {
	s := newTestFilterService(t)

	got, err := s.Compare([]string{"du-1", "qu-1", "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 comparable institutions, got %d", len(got))
	}
	if got[0].ID != "qu-1" || got[1].ID != "du-1" {
		t.Errorf("comparison order = %v", institutionIDs(got))
	}
}

func TestFilteringDoesNotMutateLoadedSet(t *testing.T) {
	s := newTestFilterService(t)

	before, _ := s.Institutions()
	_, _ = s.FilterInstitutions(model.InstitutionFilter{Country: "Qatar"}, model.SortLocation)
	after, _ := s.Institutions()

	if len(before) != len(after) {
		t.Fatal("filtering changed the loaded set size")
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Fatal("filtering reordered the loaded set")
		}
	}
}
