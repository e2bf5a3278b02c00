package scraper

// LinkedIn profile page selectors. These WILL break when LinkedIn changes
// its markup; each field therefore carries an ordered cascade of candidates
// covering current and legacy layouts, tried until one yields a value.
// Inspect a profile page in DevTools to verify/update.

// Top card: any match confirms the profile page has rendered.
var topCardSelectors = []string{
	".pv-top-card",
	".profile-photo-edit__preview",
	".pv-text-details__left-panel",
	".pv-profile-section",
}

// Basic info field cascades.
var (
	nameSelectors = []string{
		"h1.text-heading-xlarge",
		".pv-text-details__left-panel h1",
		".pv-top-card--list li.inline",
	}
	headlineSelectors = []string{
		".pv-text-details__left-panel .text-body-medium",
		".ph5 .text-body-medium",
		".pv-top-card .text-body-medium",
	}
	locationSelectors = []string{
		".pv-text-details__left-panel .text-body-small:not(.inline)",
		".ph5 .text-body-small.mt2",
		".pv-top-card .text-body-small",
	}
	imageSelectors = []string{
		"img.pv-top-card-profile-picture__image",
		"img.profile-photo-edit__preview",
		".pv-top-card .presence-entity__image",
	}
)

// About section candidates; the extractor prefers a result that is no
// longer truncated with an ellipsis.
var aboutSelectors = []string{
	"#about",
	".pv-about-section",
	".pv-about__summary-text",
	"[data-section='summary']",
}

// Experience: entry enumeration strategies (current vs. legacy markup) and
// per-field cascades.
var (
	experienceEntrySelectors = []string{
		"#experience li.artdeco-list__item",
		".experience-section .pv-entity__position-group",
		".experience-section .pv-profile-section__card-item",
	}
	expTitleSelectors = []string{
		".pv-entity__summary-info h3",
		".t-bold span[aria-hidden='true']",
	}
	expCompanySelectors = []string{
		".pv-entity__secondary-title",
		"span.t-14.t-normal span[aria-hidden='true']",
	}
	expDurationSelectors = []string{
		".pv-entity__date-range span:not(.visually-hidden)",
		".pvs-entity__caption-wrapper",
	}
	expLocationSelectors = []string{
		".pv-entity__location span:not(.visually-hidden)",
		"span.t-14.t-normal.t-black--light span[aria-hidden='true']",
	}
	expDescriptionSelectors = []string{
		".pv-entity__description",
		".inline-show-more-text span[aria-hidden='true']",
	}
)

// Education.
var (
	educationEntrySelectors = []string{
		"#education li.artdeco-list__item",
		".education-section .pv-profile-section__list-item",
	}
	eduSchoolSelectors = []string{
		".pv-entity__school-name",
		".t-bold span[aria-hidden='true']",
	}
	eduDegreeSelectors = []string{
		".pv-entity__degree-name .pv-entity__comma-item",
		"span.t-14.t-normal span[aria-hidden='true']",
	}
	eduFieldSelectors = []string{
		".pv-entity__fos .pv-entity__comma-item",
	}
	eduDatesSelectors = []string{
		".pv-entity__dates time",
		".pvs-entity__caption-wrapper",
	}
	eduDescriptionSelectors = []string{
		".pv-entity__description",
	}
)

// Skills.
var (
	skillEntrySelectors = []string{
		".pv-skill-category-entity__skill-wrapper",
		".pv-skill-category-entity",
	}
	skillNameSelectors = []string{
		".pv-skill-category-entity__name-text",
		".pv-skill-category-entity__skill-wrapper span",
	}
	skillEndorsementSelectors = []string{
		".pv-skill-category-entity__endorsement-count",
		".t-bold",
	}
	skillCategorySelectors = []string{
		".pv-skill-category-entity__category-info",
	}
)

// Projects.
var (
	projectEntrySelectors = []string{
		"#projects .project-entry",
		".projects-section .pv-accomplishment-entity",
	}
	projectNameSelectors        = []string{".project-title", ".pv-accomplishment-entity__title"}
	projectDescriptionSelectors = []string{".project-description", ".pv-accomplishment-entity__description"}
	projectDateSelectors        = []string{".project-date", ".pv-accomplishment-entity__date"}
	projectURLSelectors         = []string{".project-url", ".pv-accomplishment-entity__external-source"}
)

// Certifications.
var (
	certificationEntrySelectors = []string{
		"#certifications .pv-certification-entity",
		"section.certifications-section .pv-certification-entity",
	}
	certNameSelectors         = []string{".pv-entity__title"}
	certOrgSelectors          = []string{".pv-entity__subtitle"}
	certIssueDateSelectors    = []string{".pv-entity__date-range time"}
	certExpirationSelectors   = []string{".pv-entity__expiration time"}
	certCredentialIDSelectors = []string{".pv-entity__credential-id"}
	certURLSelectors          = []string{".pv-entity__credential-url a"}
)

// Section-expansion controls clicked during human-like scrolling to force
// lazy content to materialize.
var showMoreSelectors = []string{
	"button.inline-show-more-text__button",
	"button.pv-profile-section__see-more-inline",
	"button.pv-profile-section__card-action-bar",
	".pv-skills-section__additional-skills",
	"button.show-more-less-button",
	"button[aria-label*='more']",
	"button[aria-label*='Show']",
}
