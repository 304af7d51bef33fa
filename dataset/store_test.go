package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTableSourceNotFound(t *testing.T) {
	_, _, err := LoadTable(filepath.Join(t.TempDir(), "missing.csv"), UniversitySchema, UniversityLayouts)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Table != "universities" {
		t.Errorf("error should identify which table failed, got %v", err)
	}
}

func TestLoadTableSourceEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	writeFile(t, path, "")

	_, _, err := LoadTable(path, UniversitySchema, UniversityLayouts)
	if !errors.Is(err, ErrSourceEmpty) {
		t.Fatalf("err = %v, want ErrSourceEmpty", err)
	}
}

func TestLoadTableSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unis.csv")
	// one structurally malformed row (wrong field count) among two good ones
	writeFile(t, path,
		"uni_id,name_en,country\n"+
			"a-1,Alpha University,Qatar\n"+
			"b-1,broken\n"+
			"c-1,Gamma University,Kuwait\n")

	records, stats, err := LoadTable(path, UniversitySchema, UniversityLayouts)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected exactly the 2 well-formed rows, got %d", len(records))
	}
	if stats.Skipped == 0 {
		t.Error("skipped-row count should be observable")
	}
}

func TestStoreProgramsIndependentOfUniversities(t *testing.T) {
	dir := t.TempDir()
	unisPath := filepath.Join(dir, "universities.csv")
	writeFile(t, unisPath, "uni_id,name_en\nu-1,Uni One\n")

	// programs path deliberately missing
	store := NewStore(unisPath, filepath.Join(dir, "programs.csv"))

	if _, _, err := store.Universities(); err != nil {
		t.Fatalf("institution browsing must not depend on the programs table: %v", err)
	}
	if _, _, err := store.Programs(); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("programs err = %v, want ErrSourceNotFound", err)
	}
}

func TestStoreCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "universities.csv")
	writeFile(t, path, "uni_id,name_en\nu-1,Uni One\n")

	store := NewStore(path, "")

	_, v1, err := store.Universities()
	if err != nil {
		t.Fatal(err)
	}
	_, v2, err := store.Universities()
	if err != nil {
		t.Fatal(err)
	}
	if v1 != v2 {
		t.Fatalf("unchanged file must reuse the cached parse: versions %d, %d", v1, v2)
	}

	// mtime resolution on some filesystems is coarse; the size change
	// alone must invalidate
	time.Sleep(10 * time.Millisecond)
	writeFile(t, path, "uni_id,name_en\nu-1,Uni One\nu-2,Uni Two\n")

	records, v3, err := store.Universities()
	if err != nil {
		t.Fatal(err)
	}
	if v3 == v2 {
		t.Fatal("changed file must trigger a reload")
	}
	if len(records) != 2 {
		t.Fatalf("reload returned %d records, want 2", len(records))
	}
}

func TestStoreEmptyProgramsPath(t *testing.T) {
	dir := t.TempDir()
	unisPath := filepath.Join(dir, "universities.csv")
	writeFile(t, unisPath, "uni_id,name_en\nu-1,Uni One\n")

	store := NewStore(unisPath, "")
	if _, _, err := store.Programs(); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("unconfigured programs table: err = %v, want ErrSourceNotFound", err)
	}
}
