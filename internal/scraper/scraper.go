package scraper

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/pfczx/profilescraper/internal/browser"
	"github.com/pfczx/profilescraper/internal/config"
	"github.com/pfczx/profilescraper/internal/profile"
)

// Notifier receives lifecycle events for a scrape run. Implementations must
// be fire-and-forget: a notification failure never affects the pipeline.
type Notifier interface {
	NotifyStart(profileURL string)
	NotifySuccess(name string, fallback bool)
	NotifyError(stage string, err error)
}

// CacheWriter persists the latest good record locally.
type CacheWriter interface {
	Save(rec *profile.Record) error
}

// SheetWriter mirrors a record into per-section worksheets.
type SheetWriter interface {
	SaveProfile(ctx context.Context, rec *profile.Record) error
}

// driver is the seam between orchestration and the live browser, so the
// decision logic can be exercised without Chrome.
type driver interface {
	Acquire(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	NavigateToProfile(ctx context.Context, profileURL string) error
	Snapshot(ctx context.Context) (string, error)
	Release()
}

// Scraper runs the full pipeline: session, login, navigation, extraction,
// validation and persistence. Failures after session acquisition degrade to
// a tagged fallback record instead of an error, so callers always get a
// complete payload.
type Scraper struct {
	cfg      config.Config
	notifier Notifier
	cache    CacheWriter
	sheet    SheetWriter

	newDriver func() driver
	group     singleflight.Group
}

// New builds a scraper. cache and sheet may be nil when persistence is not
// wanted (one-shot CLI runs against stdout).
func New(cfg config.Config, notifier Notifier, cache CacheWriter, sheet SheetWriter) *Scraper {
	s := &Scraper{cfg: cfg, notifier: notifier, cache: cache, sheet: sheet}
	s.newDriver = func() driver { return &chromeDriver{cfg: cfg} }
	return s
}

// Scrape runs the pipeline for one profile. Concurrent calls for the same
// normalized URL coalesce into a single run sharing its result. The only
// error returned is a browser-session initialization failure; every other
// problem yields a fallback record and a nil error.
func (s *Scraper) Scrape(ctx context.Context, profileURL string) (*profile.Record, error) {
	key := profile.NormalizeURL(profileURL)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.scrapeOne(ctx, profileURL)
	})
	if shared {
		log.Printf("joined in-flight scrape for %s", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*profile.Record), nil
}

func (s *Scraper) scrapeOne(ctx context.Context, profileURL string) (*profile.Record, error) {
	s.notifier.NotifyStart(profileURL)

	if !s.cfg.HasCredentials() {
		err := fmt.Errorf("LinkedIn credentials not configured")
		s.notifier.NotifyError("credentials", err)
		return s.finish(ctx, profile.Fallback("LinkedIn credentials not configured"))
	}

	d := s.newDriver()
	if err := d.Acquire(ctx); err != nil {
		s.notifier.NotifyError("session", err)
		return nil, err
	}
	defer d.Release()

	if err := d.Login(ctx, s.cfg.Email, s.cfg.Password); err != nil {
		log.Printf("login failed: %v", err)
		s.notifier.NotifyError("login", err)
		return s.finish(ctx, profile.Fallback("Failed to login"))
	}

	if err := d.NavigateToProfile(ctx, profileURL); err != nil {
		log.Printf("navigation failed: %v", err)
		s.notifier.NotifyError("navigation", err)
		return s.finish(ctx, profile.Fallback("Failed to navigate to profile"))
	}

	html, err := d.Snapshot(ctx)
	if err != nil {
		log.Printf("snapshot failed: %v", err)
		s.notifier.NotifyError("snapshot", err)
		return s.finish(ctx, profile.Fallback(fmt.Sprintf("Error during scraping: %v", err)))
	}

	rec, err := ExtractProfile(html, profileURL)
	if err != nil {
		log.Printf("extraction failed: %v", err)
		s.notifier.NotifyError("extraction", err)
		return s.finish(ctx, profile.Fallback(fmt.Sprintf("Error during scraping: %v", err)))
	}

	if !Validate(rec) {
		log.Printf("warning: extracted profile failed validation checks")
	}

	name := rec.BasicInfo.Name
	if name == "" {
		name = "Unknown"
	}
	s.notifier.NotifySuccess(name, rec.IsFallback())
	return s.finish(ctx, rec)
}

// finish persists a usable record. Fallback or empty records are delivered
// to the caller but never written through. Terminal notifications are the
// caller's job: each run sends exactly one, error or success.
func (s *Scraper) finish(ctx context.Context, rec *profile.Record) (*profile.Record, error) {
	if !rec.IsFallback() && rec.HasContent() {
		if s.cache != nil {
			if err := s.cache.Save(rec); err != nil {
				log.Printf("warning: cache write failed: %v", err)
			}
		}
		if s.sheet != nil {
			if err := s.sheet.SaveProfile(ctx, rec); err != nil {
				log.Printf("warning: sheet write failed: %v", err)
			}
		}
	} else {
		log.Printf("skipping persistence (fallback=%v, hasContent=%v)",
			rec.IsFallback(), rec.HasContent())
	}
	return rec, nil
}

// chromeDriver is the production driver, binding a browser session and a
// navigator together behind the seam.
type chromeDriver struct {
	cfg  config.Config
	sess *browser.Session
	nav  *Navigator
}

func (d *chromeDriver) Acquire(ctx context.Context) error {
	sess, err := browser.Acquire(ctx, browser.Options{
		Headless:   d.cfg.Headless,
		ChromePath: d.cfg.ChromePath,
		DataDir:    d.cfg.DataDir,
	})
	if err != nil {
		return err
	}
	d.sess = sess
	d.nav = NewNavigator(sess, browser.NewHumanizer(0))
	return nil
}

func (d *chromeDriver) Login(ctx context.Context, email, password string) error {
	return d.nav.Login(ctx, email, password)
}

func (d *chromeDriver) NavigateToProfile(ctx context.Context, profileURL string) error {
	return d.nav.NavigateToProfile(ctx, profileURL)
}

func (d *chromeDriver) Snapshot(ctx context.Context) (string, error) {
	return d.nav.Snapshot(ctx)
}

func (d *chromeDriver) Release() {
	if d.sess != nil {
		d.sess.Release()
	}
}
