package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/pfczx/profilescraper/internal/browser"
)

// Login flow states, logged as the state machine advances.
const (
	stateCredentialEntry = "credential-entry"
	stateSubmitted       = "submitted"
	stateChallenged      = "challenged"
	stateConfirmed       = "confirmed"
)

// Page markers that indicate the session hit a wall instead of a profile.
var (
	challengeMarkers = []string{
		"security verification",
		"verify you're human",
		"let's do a quick security check",
		"captcha",
		"challenge",
	}
	profileBlockMarkers = []string{
		"this profile is not available",
		"page not found",
		"you've reached the weekly limit",
		"commercial use limit",
	}
)

// loginConfirmSelectors: any one of these appearing means authentication
// completed and the feed rendered.
var loginConfirmSelectors = []string{
	"nav.global-nav",
	".global-nav__me",
	".search-global-typeahead",
}

// loginConfirmTiers are the successive waits applied after submitting
// credentials: a long first window for slow redirects and manual challenge
// resolution, then one shorter retry.
var loginConfirmTiers = []time.Duration{60 * time.Second, 30 * time.Second}

// Navigator drives a live browser session through login and profile
// navigation, leaving the page ready for a snapshot.
type Navigator struct {
	sess  *browser.Session
	hum   *browser.Humanizer
	runID string
}

// NewNavigator wires a navigator to an acquired session.
func NewNavigator(sess *browser.Session, hum *browser.Humanizer) *Navigator {
	return &Navigator{sess: sess, hum: hum, runID: uuid.NewString()[:8]}
}

// Login authenticates against linkedin.com. Typing and clicking go through
// the humanizer; challenge pages are screenshotted and reported as errors
// after a grace period for manual resolution.
func (n *Navigator) Login(ctx context.Context, email, password string) error {
	bctx := n.sess.Context()

	if err := chromedp.Run(bctx, chromedp.Navigate("https://www.linkedin.com/login")); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}
	n.hum.Delay(2*time.Second, 4*time.Second)

	var loc string
	if err := chromedp.Run(bctx, chromedp.Location(&loc)); err == nil {
		if strings.Contains(loc, "/feed") || strings.Contains(loc, "/mynetwork") {
			log.Printf("login: already authenticated (%s)", loc)
			return nil
		}
	}

	log.Printf("login state: %s", stateCredentialEntry)
	if err := n.waitAny(ctx, []time.Duration{10 * time.Second}, anyVisible("#username", "#password")); err != nil {
		return fmt.Errorf("login form did not appear: %w", err)
	}

	if err := n.hum.TypeLikeHuman(bctx, "#username", email); err != nil {
		return fmt.Errorf("entering email: %w", err)
	}
	n.hum.Delay(500*time.Millisecond, 1500*time.Millisecond)
	if err := n.hum.TypeLikeHuman(bctx, "#password", password); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}
	n.hum.Delay(500*time.Millisecond, 1500*time.Millisecond)

	if err := n.hum.ClickWithJitter(bctx, "button[type='submit']"); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	log.Printf("login state: %s", stateSubmitted)
	n.hum.Delay(3*time.Second, 5*time.Second)

	if hit, marker := n.pageContainsAny(bctx, challengeMarkers); hit {
		log.Printf("login state: %s (marker: %q)", stateChallenged, marker)
		if err := n.sess.Screenshot(n.shotName("login_challenge")); err != nil {
			log.Printf("warning: challenge screenshot failed: %v", err)
		}
		// Leave a window for the check to clear, either by a human on a
		// visible browser or by LinkedIn resolving it on its own. The
		// login only fails if the marker is still present afterwards.
		n.hum.Delay(10*time.Second, 15*time.Second)
		if hit, _ = n.pageContainsAny(bctx, challengeMarkers); hit {
			return fmt.Errorf("login blocked by security challenge (%s)", marker)
		}
	}

	cond := orConditions(urlContains("/feed"), anyVisible(loginConfirmSelectors...))
	if err := n.waitAny(ctx, loginConfirmTiers, cond); err != nil {
		if serr := n.sess.Screenshot(n.shotName("login_failed")); serr != nil {
			log.Printf("warning: login-failure screenshot failed: %v", serr)
		}
		return fmt.Errorf("login not confirmed: %w", err)
	}
	log.Printf("login state: %s", stateConfirmed)
	return nil
}

// NavigateToProfile opens the target profile, verifies it rendered, then
// scrolls through the page expanding lazy sections so that a single
// snapshot captures everything.
func (n *Navigator) NavigateToProfile(ctx context.Context, profileURL string) error {
	bctx := n.sess.Context()

	if err := chromedp.Run(bctx, chromedp.Navigate(profileURL)); err != nil {
		return fmt.Errorf("opening profile: %w", err)
	}
	n.hum.Delay(3*time.Second, 5*time.Second)

	if hit, marker := n.pageContainsAny(bctx, profileBlockMarkers); hit {
		if err := n.sess.Screenshot(n.shotName("profile_blocked")); err != nil {
			log.Printf("warning: blocked-page screenshot failed: %v", err)
		}
		return fmt.Errorf("profile page unavailable: %s", marker)
	}

	if err := n.waitAny(ctx, []time.Duration{30 * time.Second}, anyVisible(topCardSelectors...)); err != nil {
		if serr := n.sess.Screenshot(n.shotName("profile_timeout")); serr != nil {
			log.Printf("warning: timeout screenshot failed: %v", serr)
		}
		return fmt.Errorf("profile top card did not render: %w", err)
	}

	var loc string
	if err := chromedp.Run(bctx, chromedp.Location(&loc)); err == nil {
		if !strings.Contains(loc, "linkedin.com/in/") {
			return fmt.Errorf("redirected away from profile: %s", loc)
		}
	}

	// Walk down the page in human-paced passes, expanding truncated
	// sections along the way so lazy content loads before the snapshot.
	for pass := 0; pass < 5; pass++ {
		n.hum.ScrollGradually(bctx, 800)
		n.hum.Delay(time.Second, 2*time.Second)
		if pass%2 == 1 {
			n.expandSections(bctx)
		}
	}
	n.expandSections(bctx)
	n.hum.ScrollGradually(bctx, -4000)
	n.hum.Delay(time.Second, 2*time.Second)
	return nil
}

// Snapshot captures the rendered document for offline extraction.
func (n *Navigator) Snapshot(ctx context.Context) (string, error) {
	var html string
	bctx := n.sess.Context()
	if err := chromedp.Run(bctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capturing page snapshot: %w", err)
	}
	return html, nil
}

// expandSections clicks every visible show-more control once. Failures are
// expected (stale or covered buttons) and only logged.
func (n *Navigator) expandSections(bctx context.Context) {
	for _, sel := range showMoreSelectors {
		js := fmt.Sprintf(`(() => {
			const el = document.querySelector(%q);
			if (!el) return false;
			const r = el.getBoundingClientRect();
			return r.width > 0 && r.height > 0;
		})()`, sel)
		var visible bool
		if err := chromedp.Run(bctx, chromedp.EvaluateAsDevTools(js, &visible)); err != nil || !visible {
			continue
		}
		if err := n.hum.ClickWithJitter(bctx, sel); err != nil {
			log.Printf("expand %q: %v", sel, err)
			continue
		}
		n.hum.Delay(500*time.Millisecond, 1200*time.Millisecond)
	}
}

// waitAny polls a boolean page condition until it holds, spending each tier
// in turn. Tiers let the first wait be generous and the retries short.
func (n *Navigator) waitAny(ctx context.Context, tiers []time.Duration, cond string) error {
	bctx := n.sess.Context()
	for i, tier := range tiers {
		deadline := time.Now().Add(tier)
		for time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			var ok bool
			if err := chromedp.Run(bctx, chromedp.EvaluateAsDevTools(cond, &ok)); err == nil && ok {
				return nil
			}
			time.Sleep(1500 * time.Millisecond)
		}
		if i < len(tiers)-1 {
			log.Printf("condition not met after %s, extending wait", tier)
		}
	}
	return fmt.Errorf("condition not met within %d wait tier(s)", len(tiers))
}

func (n *Navigator) pageContainsAny(bctx context.Context, markers []string) (bool, string) {
	var body string
	evalCtx, cancel := context.WithTimeout(bctx, 10*time.Second)
	defer cancel()
	if err := chromedp.Run(evalCtx, chromedp.EvaluateAsDevTools(
		`document.body ? document.body.innerText.toLowerCase() : ''`, &body)); err != nil {
		return false, ""
	}
	for _, m := range markers {
		if strings.Contains(body, m) {
			return true, m
		}
	}
	return false, ""
}

func (n *Navigator) shotName(kind string) string {
	return fmt.Sprintf("%s_%s.png", kind, n.runID)
}

// JS condition builders for waitAny.

func anyVisible(selectors ...string) string {
	quoted := make([]string, len(selectors))
	for i, s := range selectors {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`(() => [%s].some(sel => {
		const el = document.querySelector(sel);
		if (!el) return false;
		const r = el.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	}))()`, strings.Join(quoted, ", "))
}

func urlContains(fragment string) string {
	return fmt.Sprintf(`window.location.href.includes(%q)`, fragment)
}

func orConditions(conds ...string) string {
	return "(" + strings.Join(conds, ") || (") + ")"
}
