package dataset

import (
	"strings"
)

// Field is one named column of a target schema with its default value.
type Field struct {
	Name    string
	Default string
}

// Schema is the declarative target layout a table is normalized into.
// Key names the identifier field; rows whose key is empty or a placeholder
// are dropped, and duplicate keys keep the first occurrence.
type Schema struct {
	Name   string
	Key    string
	Fields []Field
}

// FieldNames returns the field names in declared order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// HasField reports whether the schema declares the given field name.
func (s Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Layout is a known historical column arrangement, identified by its exact
// column count. Columns are positional names; Derived maps a target field
// to the layout column it is computed from when the modern name is absent.
type Layout struct {
	Name    string
	Columns []string
	Derived map[string]string
}

// Record is a normalized row. Every target field is present and every value
// is a string; empty string means unknown/absent.
type Record map[string]string

// Stats reports what normalization did with the raw table.
type Stats struct {
	Rows       int // normalized rows returned
	Skipped    int // structurally malformed rows
	Dropped    int // rows with an empty or placeholder key
	Duplicates int // rows collapsed onto an earlier key
}

// UniversitySchema is the target layout for the universities table.
var UniversitySchema = Schema{
	Name: "universities",
	Key:  "uni_id",
	Fields: []Field{
		{Name: "uni_id"},
		{Name: "name_ar"},
		{Name: "name_en"},
		{Name: "country"},
		{Name: "city"},
		{Name: "type"},
		{Name: "scholarship"},
		{Name: "ranking_source"},
		{Name: "ranking_value"},
		{Name: "accreditation_notes"},
		{Name: "website"},
		{Name: "admissions_url"},
		{Name: "programs_url"},
		{Name: "scholarship_local"},
		{Name: "scholarship_gcc"},
		{Name: "scholarship_international"},
		{Name: "scholarship_conditional"},
	},
}

// ProgramSchema is the target layout for the programs table.
var ProgramSchema = Schema{
	Name: "programs",
	Key:  "program_id",
	Fields: []Field{
		{Name: "program_id"},
		{Name: "uni_id"},
		{Name: "level"},
		{Name: "degree"},
		{Name: "field"},
		{Name: "name_ar"},
		{Name: "name_en"},
		{Name: "city"},
		{Name: "language"},
		{Name: "duration"},
		{Name: "tuition"},
		{Name: "admission_requirements"},
		{Name: "url"},
		{Name: "english_test"},
		{Name: "english_score"},
		{Name: "math_min"},
		{Name: "notes"},
	},
}

// UniversityLayouts are the known legacy widths for the universities table.
var UniversityLayouts = map[int]Layout{
	// Original export before scholarship and ranking columns were split out.
	// The two trailing "extra" columns carried ranking value and
	// accreditation notes positionally.
	12: {
		Name: "universities/v1-legacy",
		Columns: []string{
			"uni_id", "name_ar", "name_en", "country", "city", "type",
			"website", "admissions_url", "programs_url", "ranking_source",
			"extra1", "extra2",
		},
		Derived: map[string]string{
			"ranking_value":       "extra1",
			"accreditation_notes": "extra2",
		},
	},
	// The current flat export.
	13: {
		Name: "universities/v2-modern",
		Columns: []string{
			"uni_id", "name_ar", "name_en", "country", "city", "type",
			"scholarship", "ranking_source", "ranking_value",
			"accreditation_notes", "website", "admissions_url", "programs_url",
		},
	},
	// v2 plus per-category scholarship detail and a last_verified stamp.
	// last_verified is not part of the target schema and is discarded.
	18: {
		Name: "universities/v3-scholarship-detail",
		Columns: []string{
			"uni_id", "name_ar", "name_en", "country", "city", "type",
			"scholarship", "ranking_source", "ranking_value",
			"accreditation_notes", "website", "admissions_url", "programs_url",
			"scholarship_local", "scholarship_gcc", "scholarship_international",
			"scholarship_conditional", "last_verified",
		},
	},
}

// ProgramLayouts are the known legacy widths for the programs table.
var ProgramLayouts = map[int]Layout{
	// Export before the admission-signal columns were added.
	13: {
		Name: "programs/v1-legacy",
		Columns: []string{
			"program_id", "uni_id", "level", "degree", "field", "name_ar",
			"name_en", "city", "language", "duration", "tuition",
			"admission_requirements", "url",
		},
	},
	17: {
		Name: "programs/v2-modern",
		Columns: []string{
			"program_id", "uni_id", "level", "degree", "field", "name_ar",
			"name_en", "city", "language", "duration", "tuition",
			"admission_requirements", "url", "english_test", "english_score",
			"math_min", "notes",
		},
	},
}

// placeholder identifier values treated the same as an empty key
var keyPlaceholders = map[string]bool{
	"-":    true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

func isPlaceholderKey(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	return keyPlaceholders[strings.ToLower(v)]
}

// HasHeader reports whether the first row of a raw table is a header for the
// given schema. Detection follows the loader contract: the first cell must
// equal the schema's first field name, case-insensitive and trimmed.
func HasHeader(rows [][]string, schema Schema) bool {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(rows[0][0]), schema.Fields[0].Name)
}

// Normalize coerces a raw table into the target schema.
//
// Resolution order per the loader contract:
//  1. header row present -> map source columns to target fields by name
//  2. headerless and the width matches a known legacy layout -> positional
//     rename per that layout, then apply its derived-field table
//  3. headerless and unknown width -> best effort positional mapping onto
//     the target schema's declared order
//
// Normalize never fails; the worst outcome for a row is all defaults. Rows
// whose width disagrees with the resolved column list are skipped and
// counted, as are rows with an empty/placeholder key or a duplicate key.
func Normalize(rows [][]string, schema Schema, layouts map[int]Layout) ([]Record, Stats) {
	var stats Stats
	if len(rows) == 0 {
		return []Record{}, stats
	}

	var columns []string
	var derived map[string]string
	data := rows

	if HasHeader(rows, schema) {
		columns = make([]string, len(rows[0]))
		for i, name := range rows[0] {
			columns[i] = strings.ToLower(strings.TrimSpace(name))
		}
		data = rows[1:]
	} else if layout, ok := layouts[len(rows[0])]; ok {
		columns = layout.Columns
		derived = layout.Derived
	} else {
		columns = schema.FieldNames()
	}

	records := make([]Record, 0, len(data))
	seen := make(map[string]bool, len(data))

	for _, row := range data {
		if len(row) != len(columns) {
			stats.Skipped++
			continue
		}

		byName := make(map[string]string, len(columns))
		for i, col := range columns {
			byName[col] = strings.TrimSpace(row[i])
		}

		rec := make(Record, len(schema.Fields))
		for _, f := range schema.Fields {
			val, ok := byName[f.Name]
			if !ok || val == "" {
				// derived fields fill from the legacy column when the
				// modern name carries nothing
				if src, has := derived[f.Name]; has {
					val = byName[src]
				}
			}
			if val == "" {
				val = f.Default
			}
			rec[f.Name] = val
		}

		key := rec[schema.Key]
		if isPlaceholderKey(key) {
			stats.Dropped++
			continue
		}
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true

		records = append(records, rec)
	}

	stats.Rows = len(records)
	return records, stats
}
