package profile

import (
	"strings"
	"time"
)

// fallbackMarker tags records produced by Fallback. Downstream consumers
// match on this literal, so it must not change.
const fallbackMarker = "FALLBACK DATA"

// Record is the aggregate result of one scrape attempt. Every list-valued
// field is always present (possibly empty), even after partial extraction
// failures.
type Record struct {
	ScrapeInfo       string              `json:"_scrape_info,omitempty"`
	BasicInfo        BasicInfo           `json:"basic_info"`
	About            string              `json:"about"`
	Experience       []Experience        `json:"experience"`
	Education        []Education         `json:"education"`
	Skills           []Skill             `json:"skills"`
	Projects         []Project           `json:"projects"`
	Certifications   []Certification     `json:"certifications"`
	SkillsByCategory map[string][]string `json:"skills_by_category,omitempty"`
	LastUpdated      time.Time           `json:"last_updated"`
}

type BasicInfo struct {
	Name         string `json:"name"`
	Headline     string `json:"headline"`
	Location     string `json:"location"`
	ProfileImage string `json:"profile_image"`
	ProfileURL   string `json:"profile_url"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type Education struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	DateRange    string `json:"date_range"`
	Description  string `json:"description"`
}

type Skill struct {
	Name         string `json:"name"`
	Endorsements int    `json:"endorsements"`
	Category     string `json:"category,omitempty"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	URL         string `json:"url"`
}

type Certification struct {
	Name           string `json:"name"`
	Organization   string `json:"organization"`
	IssueDate      string `json:"issue_date"`
	ExpirationDate string `json:"expiration_date"`
	CredentialID   string `json:"credential_id"`
	CredentialURL  string `json:"credential_url"`
}

// New returns an empty record with all list fields initialized, so a record
// that never gets a section filled in still serializes with empty arrays
// rather than nulls.
func New() *Record {
	return &Record{
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []Skill{},
		Projects:       []Project{},
		Certifications: []Certification{},
	}
}

// Valid reports whether an experience entry should be retained.
func (e Experience) Valid() bool { return e.Title != "" && e.Company != "" }

// Valid reports whether an education entry should be retained.
func (e Education) Valid() bool { return e.School != "" }

// Valid reports whether a skill entry should be retained.
func (s Skill) Valid() bool { return s.Name != "" }

// Valid reports whether a project entry should be retained.
func (p Project) Valid() bool { return p.Name != "" }

// Valid reports whether a certification entry should be retained.
func (c Certification) Valid() bool { return c.Name != "" }

// HasContent reports whether the record carries any substantive section.
// Records without content are never written to durable storage, so a bad
// scrape cannot overwrite previously good data.
func (r *Record) HasContent() bool {
	return len(r.Experience) > 0 || len(r.Projects) > 0 || len(r.Skills) > 0
}

// IsFallback reports whether the record is synthetic fallback data.
func (r *Record) IsFallback() bool {
	return strings.Contains(r.ScrapeInfo, fallbackMarker)
}
