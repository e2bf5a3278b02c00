package profile

import (
	"fmt"
	"time"
)

// Fallback returns the fixed synthetic profile substituted when live
// extraction cannot succeed. It is deterministic apart from the timestamp
// and is tagged so it can be recognized and kept out of durable storage.
func Fallback(reason string) *Record {
	rec := New()
	rec.ScrapeInfo = fmt.Sprintf("%s (Reason: %s)", fallbackMarker, reason)
	rec.BasicInfo = BasicInfo{
		Name:         "Bishal Budhathoki",
		Headline:     "Full Stack Developer | React | Node.js | Python | AWS",
		Location:     "Remote",
		ProfileImage: "https://media.licdn.com/dms/image/D5603AQEQy9V9Kp-qTQ/profile-displayphoto-shrink_800_800/0/1678835481599",
		ProfileURL:   "https://www.linkedin.com/in/bishalbudhathoki/",
	}
	rec.About = "Experienced Full Stack Developer with a passion for building web applications using modern technologies."
	rec.Experience = []Experience{{
		Title:       "Senior Full Stack Developer",
		Company:     "Tech Innovations Ltd",
		Duration:    "Jan 2021 - Present",
		Location:    "Remote",
		Description: "Developing and maintaining web applications using React, Node.js, and AWS.",
	}}
	rec.Education = []Education{{
		School:       "University of Computer Science",
		Degree:       "Master of Science in Computer Science",
		FieldOfStudy: "Web Development",
		DateRange:    "2014 - 2016",
	}}
	rec.Skills = []Skill{
		{Name: "JavaScript", Endorsements: 32},
		{Name: "React.js", Endorsements: 28},
	}
	rec.Projects = []Project{{
		Name:        "E-commerce Platform",
		Description: "Built a full-featured e-commerce platform using React, Node.js, and MongoDB.",
		Date:        "Jan 2022 - Jun 2022",
		URL:         "https://github.com/bishalbudhathoki/ecommerce-platform",
	}}
	rec.Certifications = []Certification{{
		Name:          "AWS Certified Developer - Associate",
		Organization:  "Amazon Web Services",
		IssueDate:     "Mar 2022",
		CredentialURL: "https://www.credly.com/badges/aws-certified-developer-associate",
	}}

	names := make([]string, 0, len(rec.Skills))
	for _, s := range rec.Skills {
		names = append(names, s.Name)
	}
	rec.SkillsByCategory = CategorizeSkills(names)
	rec.LastUpdated = time.Now().UTC()
	return rec
}
