package scraper

import (
	"log"

	"github.com/pfczx/profilescraper/internal/profile"
)

// Validate checks an extracted record for completeness. It only warns:
// sparse profiles are legitimate, so a failed validation never aborts the
// pipeline or blocks delivery of what was extracted.
func Validate(rec *profile.Record) bool {
	ok := true

	if rec.BasicInfo.Name == "" {
		log.Printf("validation: basic info is missing a name")
		ok = false
	}
	if len(rec.Experience) == 0 {
		log.Printf("validation: no experience entries extracted")
		ok = false
	}
	if len(rec.Education) == 0 {
		log.Printf("validation: no education entries extracted")
		ok = false
	}
	if len(rec.Skills) == 0 {
		log.Printf("validation: no skills extracted")
		ok = false
	}

	for i, exp := range rec.Experience {
		if !exp.Valid() {
			log.Printf("validation: experience entry %d is incomplete", i)
			ok = false
		}
	}
	for i, edu := range rec.Education {
		if !edu.Valid() {
			log.Printf("validation: education entry %d is incomplete", i)
			ok = false
		}
	}

	return ok
}
