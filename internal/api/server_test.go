package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfczx/profilescraper/internal/browser"
	"github.com/pfczx/profilescraper/internal/profile"
	"github.com/pfczx/profilescraper/internal/sheet"
)

type fakeScraper struct {
	rec *profile.Record
	err error
}

func (f *fakeScraper) Scrape(ctx context.Context, profileURL string) (*profile.Record, error) {
	return f.rec, f.err
}

func newTestServer(t *testing.T, scraper ProfileScraper, seed *profile.Record) *Server {
	t.Helper()
	store, err := sheet.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mirror := sheet.NewMirror(store)
	if seed != nil {
		require.NoError(t, mirror.SaveProfile(context.Background(), seed))
	}
	return NewServer(scraper, mirror, "https://www.linkedin.com/in/janedoe")
}

func scrapedRecord() *profile.Record {
	rec := profile.New()
	rec.BasicInfo.Name = "Jane Doe"
	rec.Skills = []profile.Skill{{Name: "Go"}}
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{}, nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScrapeAndUpdateSuccess(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{rec: scrapedRecord()}, nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/linkedin/scrape-and-update", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got profile.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.BasicInfo.Name)
}

func TestScrapeAndUpdateFallbackStill200(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{rec: profile.Fallback("Failed to login")}, nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/linkedin/scrape-and-update", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got profile.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.IsFallback())
}

func TestScrapeAndUpdateSessionFailureIs500(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{err: browser.ErrSessionInit}, nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/linkedin/scrape-and-update", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProfileDataEmptyStoreIs404(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{}, nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/linkedin/profile-data", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileDataServed(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{}, scrapedRecord())
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/linkedin/profile-data", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got profile.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.BasicInfo.Name)
}

func TestProfileDataFallbackFilter(t *testing.T) {
	srv := newTestServer(t, &fakeScraper{}, profile.Fallback("Failed to login"))

	// Without the filter the fallback record is served.
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/linkedin/profile-data", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// With ?fallback=false it is treated as absent.
	w = httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/linkedin/profile-data?fallback=false", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
