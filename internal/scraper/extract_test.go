package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileFixture = `<html><body>
<div class="pv-top-card">
  <div class="pv-text-details__left-panel">
    <h1 class="text-heading-xlarge">Jane Doe</h1>
    <div class="text-body-medium">Software Engineer</div>
    <span class="text-body-small">Berlin, Germany</span>
  </div>
  <img class="pv-top-card-profile-picture__image" src="https://example.com/jane.jpg"/>
</div>

<div id="about">Engineer who builds scrapers and data pipelines.</div>

<div id="experience">
  <ul>
    <li class="artdeco-list__item">
      <div class="pv-entity__summary-info"><h3>Senior Engineer</h3></div>
      <p class="pv-entity__secondary-title">Acme Corp</p>
      <div class="pv-entity__date-range"><span>2020 - Present</span></div>
      <div class="pv-entity__location"><span>Berlin</span></div>
      <div class="pv-entity__description">Leads the scraping platform.</div>
    </li>
    <li class="artdeco-list__item">
      <div class="pv-entity__summary-info"><h3>Orphan Title</h3></div>
    </li>
  </ul>
</div>

<div id="education">
  <ul>
    <li class="artdeco-list__item">
      <div class="pv-entity__school-name">Technical University</div>
      <div class="pv-entity__degree-name"><span class="pv-entity__comma-item">BSc</span></div>
      <div class="pv-entity__fos"><span class="pv-entity__comma-item">Computer Science</span></div>
      <div class="pv-entity__dates"><time>2012 - 2016</time></div>
    </li>
  </ul>
</div>

<div id="skills">
  <div class="pv-skill-category-entity__skill-wrapper">
    <span class="pv-skill-category-entity__name-text">React</span>
    <span class="pv-skill-category-entity__endorsement-count">12</span>
  </div>
  <div class="pv-skill-category-entity__skill-wrapper">
    <span class="pv-skill-category-entity__name-text">Kubernetes</span>
  </div>
</div>

<div id="projects">
  <div class="project-entry">
    <div class="project-title">Crawler Framework</div>
    <div class="project-description">Distributed crawling framework.</div>
    <div class="project-date">2021</div>
    <a class="project-url" href="https://example.com/crawler">link</a>
  </div>
</div>

<div id="certifications">
  <div class="pv-certification-entity">
    <div class="pv-entity__title">Certified Kubernetes Administrator</div>
    <div class="pv-entity__subtitle">CNCF</div>
    <div class="pv-entity__date-range"><time>Jun 2021</time></div>
    <div class="pv-entity__credential-id">CKA-1234</div>
    <div class="pv-entity__credential-url"><a href="https://example.com/cka">verify</a></div>
  </div>
</div>
</body></html>`

func TestExtractProfileBasicInfo(t *testing.T) {
	rec, err := ExtractProfile(profileFixture, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", rec.BasicInfo.Name)
	assert.Equal(t, "Software Engineer", rec.BasicInfo.Headline)
	assert.Equal(t, "Berlin, Germany", rec.BasicInfo.Location)
	assert.Equal(t, "https://example.com/jane.jpg", rec.BasicInfo.ProfileImage)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", rec.BasicInfo.ProfileURL)
	assert.Equal(t, "Engineer who builds scrapers and data pipelines.", rec.About)
}

func TestExtractProfileDropsIncompleteExperience(t *testing.T) {
	rec, err := ExtractProfile(profileFixture, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	require.Len(t, rec.Experience, 1, "entry without a company must be dropped")
	exp := rec.Experience[0]
	assert.Equal(t, "Senior Engineer", exp.Title)
	assert.Equal(t, "Acme Corp", exp.Company)
	assert.Equal(t, "2020 - Present", exp.Duration)
	assert.Equal(t, "Berlin", exp.Location)
	assert.Equal(t, "Leads the scraping platform.", exp.Description)
}

func TestExtractProfileSections(t *testing.T) {
	rec, err := ExtractProfile(profileFixture, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	require.Len(t, rec.Education, 1)
	assert.Equal(t, "Technical University", rec.Education[0].School)
	assert.Equal(t, "BSc", rec.Education[0].Degree)
	assert.Equal(t, "Computer Science", rec.Education[0].FieldOfStudy)
	assert.Equal(t, "2012 - 2016", rec.Education[0].DateRange)

	require.Len(t, rec.Skills, 2)
	assert.Equal(t, "React", rec.Skills[0].Name)
	assert.Equal(t, 12, rec.Skills[0].Endorsements)
	assert.Equal(t, "Kubernetes", rec.Skills[1].Name)
	assert.Equal(t, 0, rec.Skills[1].Endorsements)

	require.Len(t, rec.Projects, 1)
	assert.Equal(t, "Crawler Framework", rec.Projects[0].Name)
	assert.Equal(t, "https://example.com/crawler", rec.Projects[0].URL)

	require.Len(t, rec.Certifications, 1)
	assert.Equal(t, "Certified Kubernetes Administrator", rec.Certifications[0].Name)
	assert.Equal(t, "CNCF", rec.Certifications[0].Organization)
	assert.Equal(t, "Jun 2021", rec.Certifications[0].IssueDate)
	assert.Equal(t, "CKA-1234", rec.Certifications[0].CredentialID)
	assert.Equal(t, "https://example.com/cka", rec.Certifications[0].CredentialURL)
}

func TestExtractProfileCategorizesSkills(t *testing.T) {
	rec, err := ExtractProfile(profileFixture, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	require.NotNil(t, rec.SkillsByCategory)
	assert.Equal(t, []string{"React"}, rec.SkillsByCategory["Frontend"])
	assert.Equal(t, []string{"Kubernetes"}, rec.SkillsByCategory["DevOps/Cloud"])
}

func TestExtractProfileTimestamp(t *testing.T) {
	before := time.Now().UTC()
	rec, err := ExtractProfile(profileFixture, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.False(t, rec.LastUpdated.Before(before))
	assert.Equal(t, time.UTC, rec.LastUpdated.Location())
}

func TestExtractAboutPrefersUntruncated(t *testing.T) {
	html := `<html><body>
		<div id="about">Short summary that got cut off…</div>
		<div class="pv-about-section">The complete summary without truncation.</div>
	</body></html>`
	rec, err := ExtractProfile(html, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)
	assert.Equal(t, "The complete summary without truncation.", rec.About)
}

func TestExtractAboutKeepsTruncatedWhenOnlyOption(t *testing.T) {
	html := `<html><body><div id="about">All we have…</div></body></html>`
	rec, err := ExtractProfile(html, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)
	assert.Equal(t, "All we have…", rec.About)
}

func TestExtractProfileEmptyDocument(t *testing.T) {
	rec, err := ExtractProfile("<html><body></body></html>", "https://www.linkedin.com/in/ghost")
	require.NoError(t, err)

	assert.Empty(t, rec.BasicInfo.Name)
	assert.Empty(t, rec.Experience)
	assert.Empty(t, rec.Education)
	assert.Empty(t, rec.Skills)
	assert.Empty(t, rec.Projects)
	assert.Empty(t, rec.Certifications)
	assert.Nil(t, rec.SkillsByCategory)
	assert.False(t, rec.HasContent())
	assert.False(t, Validate(rec))
}

func TestValidateCompleteRecord(t *testing.T) {
	rec, err := ExtractProfile(profileFixture, "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)
	assert.True(t, Validate(rec))
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", clean("  a\n\tb  c  "))
	assert.Equal(t, "", clean("  \n "))
}
