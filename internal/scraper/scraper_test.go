package scraper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfczx/profilescraper/internal/browser"
	"github.com/pfczx/profilescraper/internal/config"
	"github.com/pfczx/profilescraper/internal/profile"
)

type fakeDriver struct {
	acquireErr error
	loginErr   error
	navErr     error
	snapErr    error
	html       string

	acquires int32
	released bool
	gate     chan struct{}
	started  chan struct{}
}

func (d *fakeDriver) Acquire(ctx context.Context) error {
	atomic.AddInt32(&d.acquires, 1)
	return d.acquireErr
}

func (d *fakeDriver) Login(ctx context.Context, email, password string) error {
	return d.loginErr
}

func (d *fakeDriver) NavigateToProfile(ctx context.Context, profileURL string) error {
	return d.navErr
}

func (d *fakeDriver) Snapshot(ctx context.Context) (string, error) {
	if d.started != nil {
		close(d.started)
		d.started = nil
	}
	if d.gate != nil {
		<-d.gate
	}
	return d.html, d.snapErr
}

func (d *fakeDriver) Release() { d.released = true }

type fakeNotifier struct {
	mu       sync.Mutex
	starts   []string
	successs []string
	errors   []string
}

func (n *fakeNotifier) NotifyStart(profileURL string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.starts = append(n.starts, profileURL)
}

func (n *fakeNotifier) NotifySuccess(name string, fallback bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successs = append(n.successs, name)
}

func (n *fakeNotifier) NotifyError(stage string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, stage)
}

type fakeCache struct {
	saved *profile.Record
}

func (c *fakeCache) Save(rec *profile.Record) error {
	c.saved = rec
	return nil
}

type fakeSheet struct {
	saved *profile.Record
}

func (s *fakeSheet) SaveProfile(ctx context.Context, rec *profile.Record) error {
	s.saved = rec
	return nil
}

func newTestScraper(cfg config.Config, d *fakeDriver) (*Scraper, *fakeNotifier, *fakeCache, *fakeSheet) {
	notifier := &fakeNotifier{}
	cache := &fakeCache{}
	sheet := &fakeSheet{}
	s := New(cfg, notifier, cache, sheet)
	s.newDriver = func() driver { return d }
	return s, notifier, cache, sheet
}

func credentials() config.Config {
	return config.Config{Email: "user@example.com", Password: "secret"}
}

func TestScrapeWithoutCredentials(t *testing.T) {
	d := &fakeDriver{}
	s, notifier, cache, _ := newTestScraper(config.Config{}, d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.True(t, rec.IsFallback())
	assert.Contains(t, rec.ScrapeInfo, "credentials")
	assert.Equal(t, int32(0), d.acquires, "no browser must be launched without credentials")
	assert.Nil(t, cache.saved)
	assert.Contains(t, notifier.errors, "credentials")
	assert.Empty(t, notifier.successs, "error runs must not also report success")
}

func TestScrapeSessionInitFailurePropagates(t *testing.T) {
	d := &fakeDriver{acquireErr: browser.ErrSessionInit}
	s, notifier, _, _ := newTestScraper(credentials(), d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrSessionInit)
	assert.Nil(t, rec)
	assert.Contains(t, notifier.errors, "session")
}

func TestScrapeLoginFailureYieldsFallback(t *testing.T) {
	d := &fakeDriver{loginErr: errors.New("bad password")}
	s, notifier, cache, sheet := newTestScraper(credentials(), d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.True(t, rec.IsFallback())
	assert.Contains(t, rec.ScrapeInfo, "Failed to login")
	assert.True(t, d.released)
	assert.Nil(t, cache.saved)
	assert.Nil(t, sheet.saved)
	assert.Equal(t, []string{"login"}, notifier.errors)
	assert.Empty(t, notifier.successs, "a failed login sends only the error notification")
}

func TestScrapeNavigationFailureYieldsFallback(t *testing.T) {
	d := &fakeDriver{navErr: errors.New("profile unavailable")}
	s, _, _, _ := newTestScraper(credentials(), d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.True(t, rec.IsFallback())
	assert.Contains(t, rec.ScrapeInfo, "Failed to navigate to profile")
	assert.True(t, d.released)
}

func TestScrapeSnapshotFailureYieldsFallback(t *testing.T) {
	d := &fakeDriver{snapErr: errors.New("tab crashed")}
	s, _, _, _ := newTestScraper(credentials(), d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.True(t, rec.IsFallback())
	assert.Contains(t, rec.ScrapeInfo, "Error during scraping")
}

func TestScrapeSuccessPersists(t *testing.T) {
	d := &fakeDriver{html: profileFixture}
	s, notifier, cache, sheet := newTestScraper(credentials(), d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.False(t, rec.IsFallback())
	assert.Equal(t, "Jane Doe", rec.BasicInfo.Name)
	require.NotNil(t, cache.saved)
	require.NotNil(t, sheet.saved)
	assert.Equal(t, rec, cache.saved)
	assert.True(t, d.released)
	assert.Equal(t, []string{"Jane Doe"}, notifier.successs)
	assert.Empty(t, notifier.errors)

	// Round-trippable timestamp.
	stamp := rec.LastUpdated.Format(time.RFC3339)
	_, perr := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, perr)
}

func TestScrapeFallbackNotPersisted(t *testing.T) {
	d := &fakeDriver{loginErr: errors.New("denied")}
	s, _, cache, sheet := newTestScraper(credentials(), d)

	_, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)
	assert.Nil(t, cache.saved)
	assert.Nil(t, sheet.saved)
}

func TestScrapeEmptyExtractionNotPersisted(t *testing.T) {
	d := &fakeDriver{html: "<html><body></body></html>"}
	s, _, cache, sheet := newTestScraper(credentials(), d)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
	require.NoError(t, err)

	assert.False(t, rec.IsFallback())
	assert.False(t, rec.HasContent())
	assert.Nil(t, cache.saved, "contentless result must not overwrite stored data")
	assert.Nil(t, sheet.saved)
}

func TestScrapeCoalescesConcurrentRequests(t *testing.T) {
	d := &fakeDriver{
		html:    profileFixture,
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	s, _, _, _ := newTestScraper(credentials(), d)

	started := d.started
	results := make(chan *profile.Record, 2)
	go func() {
		rec, _ := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe")
		results <- rec
	}()
	<-started

	// Same profile, differently written URL, while the first run is blocked
	// inside Snapshot: it must join the in-flight run.
	go func() {
		rec, _ := s.Scrape(context.Background(), "https://www.linkedin.com/in/janedoe/?trk=x")
		results <- rec
	}()
	time.Sleep(200 * time.Millisecond)
	close(d.gate)

	a := <-results
	b := <-results
	assert.Equal(t, int32(1), atomic.LoadInt32(&d.acquires))
	assert.Same(t, a, b)
}
