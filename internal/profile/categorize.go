package profile

import "strings"

// Skill category keyword lists. A skill lands in the first category whose
// keyword list matches it (case-insensitive substring); everything else
// goes to Other.
var skillCategories = []struct {
	name     string
	keywords []string
}{
	{"Frontend", []string{
		"JavaScript", "TypeScript", "React", "Next.js", "HTML", "CSS",
		"Tailwind", "Vue", "Angular", "Redux", "SASS", "LESS", "Bootstrap",
	}},
	// Keyword matching is substring-based, so very short keywords are
	// dangerous: "Go" would swallow MongoDB and Google Cloud.
	{"Backend", []string{
		"Node.js", "Express", "Python", "FastAPI", "Django", "Flask", "Java",
		"Spring", "C#", ".NET", "PHP", "Laravel", "Ruby", "Rails",
	}},
	{"Database", []string{
		"MongoDB", "PostgreSQL", "MySQL", "SQLite", "Oracle", "SQL Server",
		"Redis", "Firebase", "DynamoDB", "GraphQL",
	}},
	{"DevOps/Cloud", []string{
		"Git", "Docker", "Kubernetes", "AWS", "Azure", "GCP", "CI/CD", "Jenkins",
		"GitHub Actions", "CircleCI", "Terraform", "Ansible",
	}},
}

// CategorizeSkills classifies skill names into fixed technical areas.
// Pure function: the same input always yields the same mapping, and every
// category key is present even when empty.
func CategorizeSkills(names []string) map[string][]string {
	out := map[string][]string{"Other": {}}
	for _, c := range skillCategories {
		out[c.name] = []string{}
	}

	for _, name := range names {
		lower := strings.ToLower(name)
		placed := false
		for _, c := range skillCategories {
			for _, kw := range c.keywords {
				if strings.Contains(lower, strings.ToLower(kw)) {
					out[c.name] = append(out[c.name], name)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			out["Other"] = append(out["Other"], name)
		}
	}
	return out
}
