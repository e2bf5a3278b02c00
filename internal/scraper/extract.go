package scraper

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfczx/profilescraper/internal/profile"
)

// ExtractProfile parses a snapshot of a rendered profile page into a
// structured record. It is a pure function of the HTML: all live-page
// interaction (scrolling, expanding sections) happens before the snapshot
// is taken, so extraction is fully testable against static fixtures.
func ExtractProfile(html, profileURL string) (*profile.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing profile page: %w", err)
	}

	rec := profile.New()
	rec.BasicInfo = extractBasicInfo(doc, profileURL)
	rec.About = extractAbout(doc)
	rec.Experience = extractExperience(doc)
	rec.Education = extractEducation(doc)
	rec.Skills = extractSkills(doc)
	rec.Projects = extractProjects(doc)
	rec.Certifications = extractCertifications(doc)
	rec.LastUpdated = time.Now().UTC()

	if len(rec.Skills) > 0 {
		names := make([]string, 0, len(rec.Skills))
		for _, s := range rec.Skills {
			names = append(names, s.Name)
		}
		rec.SkillsByCategory = profile.CategorizeSkills(names)
	}
	return rec, nil
}

func extractBasicInfo(doc *goquery.Document, profileURL string) profile.BasicInfo {
	info := profile.BasicInfo{
		Name:         firstText(doc.Selection, nameSelectors),
		Headline:     firstText(doc.Selection, headlineSelectors),
		Location:     firstText(doc.Selection, locationSelectors),
		ProfileImage: firstAttr(doc.Selection, imageSelectors, "src"),
		ProfileURL:   profileURL,
	}
	if info.Name == "" {
		log.Printf("warning: no name found with any selector")
	}
	return info
}

// extractAbout walks the about cascade and prefers a candidate that is not
// truncated with an ellipsis; a truncated value is kept only when nothing
// better turns up.
func extractAbout(doc *goquery.Document) string {
	var truncated string
	for _, sel := range aboutSelectors {
		text := clean(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if strings.HasSuffix(text, "…") || strings.HasSuffix(text, "...") {
			if truncated == "" {
				truncated = text
			}
			continue
		}
		return text
	}
	return truncated
}

func extractExperience(doc *goquery.Document) []profile.Experience {
	out := []profile.Experience{}
	forEachEntry(doc, experienceEntrySelectors, func(s *goquery.Selection) {
		exp := profile.Experience{
			Title:       firstText(s, expTitleSelectors),
			Company:     firstText(s, expCompanySelectors),
			Duration:    firstText(s, expDurationSelectors),
			Location:    firstText(s, expLocationSelectors),
			Description: firstText(s, expDescriptionSelectors),
		}
		if exp.Valid() {
			out = append(out, exp)
		}
	})
	return out
}

func extractEducation(doc *goquery.Document) []profile.Education {
	out := []profile.Education{}
	forEachEntry(doc, educationEntrySelectors, func(s *goquery.Selection) {
		edu := profile.Education{
			School:       firstText(s, eduSchoolSelectors),
			Degree:       firstText(s, eduDegreeSelectors),
			FieldOfStudy: firstText(s, eduFieldSelectors),
			DateRange:    firstText(s, eduDatesSelectors),
			Description:  firstText(s, eduDescriptionSelectors),
		}
		if edu.Valid() {
			out = append(out, edu)
		}
	})
	return out
}

func extractSkills(doc *goquery.Document) []profile.Skill {
	out := []profile.Skill{}
	forEachEntry(doc, skillEntrySelectors, func(s *goquery.Selection) {
		sk := profile.Skill{
			Name:     firstText(s, skillNameSelectors),
			Category: firstText(s, skillCategorySelectors),
		}
		if raw := firstText(s, skillEndorsementSelectors); raw != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				sk.Endorsements = n
			}
		}
		if sk.Valid() {
			out = append(out, sk)
		}
	})
	return out
}

func extractProjects(doc *goquery.Document) []profile.Project {
	out := []profile.Project{}
	forEachEntry(doc, projectEntrySelectors, func(s *goquery.Selection) {
		p := profile.Project{
			Name:        firstText(s, projectNameSelectors),
			Description: firstText(s, projectDescriptionSelectors),
			Date:        firstText(s, projectDateSelectors),
			URL:         firstAttr(s, projectURLSelectors, "href"),
		}
		if p.URL == "" {
			p.URL = firstText(s, projectURLSelectors)
		}
		if p.Valid() {
			out = append(out, p)
		}
	})
	return out
}

func extractCertifications(doc *goquery.Document) []profile.Certification {
	out := []profile.Certification{}
	forEachEntry(doc, certificationEntrySelectors, func(s *goquery.Selection) {
		c := profile.Certification{
			Name:           firstText(s, certNameSelectors),
			Organization:   firstText(s, certOrgSelectors),
			IssueDate:      firstText(s, certIssueDateSelectors),
			ExpirationDate: firstText(s, certExpirationSelectors),
			CredentialID:   firstText(s, certCredentialIDSelectors),
			CredentialURL:  firstAttr(s, certURLSelectors, "href"),
		}
		if c.Valid() {
			out = append(out, c)
		}
	})
	return out
}

// forEachEntry enumerates section entries using the first strategy selector
// that matches anything; later strategies are not mixed in.
func forEachEntry(doc *goquery.Document, strategies []string, fn func(*goquery.Selection)) {
	for _, sel := range strategies {
		entries := doc.Find(sel)
		if entries.Length() == 0 {
			continue
		}
		entries.Each(func(_ int, s *goquery.Selection) { fn(s) })
		return
	}
}

// firstText returns the cleaned text of the first selector in the cascade
// that yields a non-empty result.
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := clean(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(s *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		if v, ok := s.Find(sel).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// clean collapses runs of whitespace (including non-breaking spaces) into
// single spaces and trims the result.
func clean(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	return strings.Join(strings.Fields(text), " ")
}
