package dataset

import (
	"log"
	"os"
	"sync"
	"time"
)

// Source describes one backing table file.
type Source struct {
	Path    string
	Schema  Schema
	Layouts map[int]Layout
}

// snapshot is one parsed copy of a table plus the file identity it came
// from. A snapshot is immutable once built; readers share it.
type snapshot struct {
	records []Record
	stats   Stats
	size    int64
	modTime time.Time
	version int64
}

func (s *snapshot) fresh(info os.FileInfo) bool {
	return s != nil && s.size == info.Size() && s.modTime.Equal(info.ModTime())
}

// Store serves cached, normalized copies of the universities and programs
// tables. A cached parse is reused until the backing file's size or
// modification time changes; each table fails independently.
type Store struct {
	mu          sync.Mutex
	unis        Source
	programs    Source
	uniSnap     *snapshot
	programSnap *snapshot
	nextVersion int64
}

// NewStore creates a store over the two table files. programsPath may be
// empty; program views then report SourceNotFound while institution
// browsing keeps working.
func NewStore(universitiesPath, programsPath string) *Store {
	return &Store{
		unis:     Source{Path: universitiesPath, Schema: UniversitySchema, Layouts: UniversityLayouts},
		programs: Source{Path: programsPath, Schema: ProgramSchema, Layouts: ProgramLayouts},
	}
}

// Universities returns the normalized universities table and its snapshot
// version. The version changes only when the table is reloaded.
func (s *Store) Universities() ([]Record, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(s.unis, s.uniSnap)
	if err != nil {
		return nil, 0, err
	}
	s.uniSnap = snap
	return snap.records, snap.version, nil
}

// Programs returns the normalized programs table and its snapshot version.
func (s *Store) Programs() ([]Record, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(s.programs, s.programSnap)
	if err != nil {
		return nil, 0, err
	}
	s.programSnap = snap
	return snap.records, snap.version, nil
}

// Refresh re-checks both tables against disk, reloading whichever went
// stale. Used by the periodic freshness job; errors are returned per table.
func (s *Store) Refresh() (uniErr, programErr error) {
	_, _, uniErr = s.Universities()
	_, _, programErr = s.Programs()
	return uniErr, programErr
}

// load returns the cached snapshot when the file identity is unchanged,
// otherwise parses the table again. Caller holds the lock.
func (s *Store) load(src Source, cached *snapshot) (*snapshot, error) {
	if src.Path == "" {
		return nil, &SourceError{Table: src.Schema.Name, Path: "", Err: ErrSourceNotFound}
	}

	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, &SourceError{Table: src.Schema.Name, Path: src.Path, Err: ErrSourceNotFound}
	}
	if cached.fresh(info) {
		return cached, nil
	}

	records, stats, err := LoadTable(src.Path, src.Schema, src.Layouts)
	if err != nil {
		return nil, err
	}

	s.nextVersion++
	if stats.Skipped > 0 || stats.Dropped > 0 || stats.Duplicates > 0 {
		log.Printf("[Dataset] %s: loaded %d rows (skipped=%d dropped=%d duplicates=%d)",
			src.Schema.Name, stats.Rows, stats.Skipped, stats.Dropped, stats.Duplicates)
	} else {
		log.Printf("[Dataset] %s: loaded %d rows", src.Schema.Name, stats.Rows)
	}

	return &snapshot{
		records: records,
		stats:   stats,
		size:    info.Size(),
		modTime: info.ModTime(),
		version: s.nextVersion,
	}, nil
}

// TableStats reports the last load stats per table for diagnostics.
func (s *Store) TableStats() map[string]Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Stats, 2)
	if s.uniSnap != nil {
		out[s.unis.Schema.Name] = s.uniSnap.stats
	}
	if s.programSnap != nil {
		out[s.programs.Schema.Name] = s.programSnap.stats
	}
	return out
}
