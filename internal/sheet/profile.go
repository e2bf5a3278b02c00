package sheet

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pfczx/profilescraper/internal/profile"
)

// Worksheet names, one per profile section.
const (
	WorksheetBasicInfo      = "BasicInfo"
	WorksheetExperience     = "Experience"
	WorksheetEducation      = "Education"
	WorksheetSkills         = "Skills"
	WorksheetProjects       = "Projects"
	WorksheetCertifications = "Certifications"
)

const fullRange = "A1:Z1000"

// Mirror binds a store to the profile save/load layout, giving callers a
// small object to hold instead of a package function plus a store.
type Mirror struct {
	store Store
}

func NewMirror(s Store) *Mirror {
	return &Mirror{store: s}
}

func (m *Mirror) SaveProfile(ctx context.Context, rec *profile.Record) error {
	return SaveProfile(ctx, m.store, rec)
}

func (m *Mirror) LoadProfile(ctx context.Context) (*profile.Record, error) {
	return LoadProfile(ctx, m.store)
}

// SaveProfile mirrors a record into the per-section worksheets, replacing
// whatever was there. Each worksheet gets a header row at A1 and data from
// A2 down.
func SaveProfile(ctx context.Context, s Store, rec *profile.Record) error {
	basic := [][]string{
		{"Name", rec.BasicInfo.Name},
		{"Headline", rec.BasicInfo.Headline},
		{"Location", rec.BasicInfo.Location},
		{"Profile Image", rec.BasicInfo.ProfileImage},
		{"Profile URL", rec.BasicInfo.ProfileURL},
		{"About", rec.About},
		{"Scrape Info", rec.ScrapeInfo},
		{"Last Updated", rec.LastUpdated.Format(time.RFC3339)},
	}
	if err := writeSheet(ctx, s, WorksheetBasicInfo, []string{"Field", "Value"}, basic); err != nil {
		return err
	}

	exp := make([][]string, 0, len(rec.Experience))
	for _, e := range rec.Experience {
		exp = append(exp, []string{e.Title, e.Company, e.Duration, e.Location, e.Description})
	}
	if err := writeSheet(ctx, s, WorksheetExperience,
		[]string{"Title", "Company", "Duration", "Location", "Description"}, exp); err != nil {
		return err
	}

	edu := make([][]string, 0, len(rec.Education))
	for _, e := range rec.Education {
		edu = append(edu, []string{e.School, e.Degree, e.FieldOfStudy, e.DateRange, e.Description})
	}
	if err := writeSheet(ctx, s, WorksheetEducation,
		[]string{"School", "Degree", "Field Of Study", "Date Range", "Description"}, edu); err != nil {
		return err
	}

	skills := make([][]string, 0, len(rec.Skills))
	for _, sk := range rec.Skills {
		skills = append(skills, []string{sk.Name, sk.Category, strconv.Itoa(sk.Endorsements)})
	}
	if err := writeSheet(ctx, s, WorksheetSkills,
		[]string{"Skill", "Category", "Endorsements"}, skills); err != nil {
		return err
	}

	projects := make([][]string, 0, len(rec.Projects))
	for _, p := range rec.Projects {
		projects = append(projects, []string{p.Name, p.Description, p.Date, p.URL})
	}
	if err := writeSheet(ctx, s, WorksheetProjects,
		[]string{"Name", "Description", "Date", "URL"}, projects); err != nil {
		return err
	}

	certs := make([][]string, 0, len(rec.Certifications))
	for _, c := range rec.Certifications {
		certs = append(certs, []string{
			c.Name, c.Organization, c.IssueDate, c.ExpirationDate, c.CredentialID, c.CredentialURL,
		})
	}
	return writeSheet(ctx, s, WorksheetCertifications,
		[]string{"Name", "Organization", "Issue Date", "Expiration Date", "Credential ID", "Credential URL"}, certs)
}

func writeSheet(ctx context.Context, s Store, worksheet string, header []string, rows [][]string) error {
	if err := s.ClearRange(ctx, worksheet, fullRange); err != nil {
		return fmt.Errorf("worksheet %s: %w", worksheet, err)
	}
	if err := s.WriteRange(ctx, worksheet, "A1", [][]string{header}); err != nil {
		return fmt.Errorf("worksheet %s: %w", worksheet, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.WriteRange(ctx, worksheet, "A2", rows); err != nil {
		return fmt.Errorf("worksheet %s: %w", worksheet, err)
	}
	return nil
}

// LoadProfile rebuilds a record from the worksheets. An entirely empty
// store yields a record with no content, which callers treat as "no data".
func LoadProfile(ctx context.Context, s Store) (*profile.Record, error) {
	rec := profile.New()

	basic, err := readSheet(ctx, s, WorksheetBasicInfo)
	if err != nil {
		return nil, err
	}
	for _, row := range basic {
		if len(row) < 2 {
			continue
		}
		switch row[0] {
		case "Name":
			rec.BasicInfo.Name = row[1]
		case "Headline":
			rec.BasicInfo.Headline = row[1]
		case "Location":
			rec.BasicInfo.Location = row[1]
		case "Profile Image":
			rec.BasicInfo.ProfileImage = row[1]
		case "Profile URL":
			rec.BasicInfo.ProfileURL = row[1]
		case "About":
			rec.About = row[1]
		case "Scrape Info":
			rec.ScrapeInfo = row[1]
		case "Last Updated":
			if t, err := time.Parse(time.RFC3339, row[1]); err == nil {
				rec.LastUpdated = t
			}
		}
	}

	exp, err := readSheet(ctx, s, WorksheetExperience)
	if err != nil {
		return nil, err
	}
	for _, row := range exp {
		rec.Experience = append(rec.Experience, profile.Experience{
			Title:       at(row, 0),
			Company:     at(row, 1),
			Duration:    at(row, 2),
			Location:    at(row, 3),
			Description: at(row, 4),
		})
	}

	edu, err := readSheet(ctx, s, WorksheetEducation)
	if err != nil {
		return nil, err
	}
	for _, row := range edu {
		rec.Education = append(rec.Education, profile.Education{
			School:       at(row, 0),
			Degree:       at(row, 1),
			FieldOfStudy: at(row, 2),
			DateRange:    at(row, 3),
			Description:  at(row, 4),
		})
	}

	skills, err := readSheet(ctx, s, WorksheetSkills)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, row := range skills {
		n, _ := strconv.Atoi(at(row, 2))
		sk := profile.Skill{Name: at(row, 0), Category: at(row, 1), Endorsements: n}
		rec.Skills = append(rec.Skills, sk)
		names = append(names, sk.Name)
	}
	if len(names) > 0 {
		rec.SkillsByCategory = profile.CategorizeSkills(names)
	}

	projects, err := readSheet(ctx, s, WorksheetProjects)
	if err != nil {
		return nil, err
	}
	for _, row := range projects {
		rec.Projects = append(rec.Projects, profile.Project{
			Name:        at(row, 0),
			Description: at(row, 1),
			Date:        at(row, 2),
			URL:         at(row, 3),
		})
	}

	certs, err := readSheet(ctx, s, WorksheetCertifications)
	if err != nil {
		return nil, err
	}
	for _, row := range certs {
		rec.Certifications = append(rec.Certifications, profile.Certification{
			Name:           at(row, 0),
			Organization:   at(row, 1),
			IssueDate:      at(row, 2),
			ExpirationDate: at(row, 3),
			CredentialID:   at(row, 4),
			CredentialURL:  at(row, 5),
		})
	}
	return rec, nil
}

// readSheet returns a worksheet's data rows with the header stripped.
func readSheet(ctx context.Context, s Store, worksheet string) ([][]string, error) {
	rows, err := s.ReadRange(ctx, worksheet, fullRange)
	if err != nil {
		return nil, fmt.Errorf("worksheet %s: %w", worksheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func at(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
