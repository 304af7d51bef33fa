package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/bosala-platform/bosala-api/dataset"
	"github.com/bosala-platform/bosala-api/model"
	"github.com/bosala-platform/bosala-api/services"
)

// datacheck loads the dataset exactly the way the server does and reports
// what normalization did with it: row counts, skipped/dropped rows, and
// the distinct values every filter control would offer. Run it after
// editing the CSV exports.
//
// Usage: go run ./cmd/datacheck [universities.csv [programs.csv]]
func main() {
	_ = godotenv.Load()

	unisPath := os.Getenv("UNIVERSITIES_CSV")
	if unisPath == "" {
		unisPath = "data/universities.csv"
	}
	programsPath := os.Getenv("PROGRAMS_CSV")
	if programsPath == "" {
		programsPath = "data/programs.csv"
	}
	if len(os.Args) > 1 {
		unisPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		programsPath = os.Args[2]
	}

	store := dataset.NewStore(unisPath, programsPath)
	filters := services.NewFilterService(store)

	insts, err := filters.Institutions()
	if err != nil {
		log.Fatalf("universities table: %v", err)
	}
	fmt.Printf("universities: %d rows (%s)\n", len(insts), unisPath)

	views, err := filters.Programs()
	if err != nil {
		fmt.Printf("programs: unavailable (%v), institution browsing still works\n", err)
	} else {
		unmatched := 0
		for _, v := range views {
			if v.Institution == nil {
				unmatched++
			}
		}
		fmt.Printf("programs: %d rows (%s), %d without a matching institution\n",
			len(views), programsPath, unmatched)
	}

	for table, stats := range store.TableStats() {
		fmt.Printf("%s: skipped=%d dropped=%d duplicates=%d\n",
			table, stats.Skipped, stats.Dropped, stats.Duplicates)
	}

	if facets, err := filters.InstitutionFacets(); err == nil {
		printFacets("institution facets", facets)
	}
	if facets, err := filters.ProgramFacets(); err == nil {
		printFacets("program facets", facets)
	}

	scholarships := map[model.Availability]int{}
	for _, inst := range insts {
		scholarships[inst.ScholarshipAvailability()]++
	}
	fmt.Printf("scholarship availability: yes=%d no=%d unknown=%d\n",
		scholarships[model.AvailabilityYes],
		scholarships[model.AvailabilityNo],
		scholarships[model.AvailabilityUnknown])
}

func printFacets(label string, facets services.Facets) {
	fmt.Println(label + ":")
	for field, values := range facets {
		fmt.Printf("  %s (%d): %v\n", field, len(values), values)
	}
}
