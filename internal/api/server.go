// Package api exposes the scrape pipeline and stored profile data over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pfczx/profilescraper/internal/browser"
	"github.com/pfczx/profilescraper/internal/profile"
)

// scrapeTimeout bounds one full pipeline run triggered over HTTP.
const scrapeTimeout = 15 * time.Minute

// ProfileScraper is what the server needs from the pipeline.
type ProfileScraper interface {
	Scrape(ctx context.Context, profileURL string) (*profile.Record, error)
}

// ProfileReader is what the server needs from the stored mirror.
type ProfileReader interface {
	LoadProfile(ctx context.Context) (*profile.Record, error)
}

// Server handles the profile endpoints.
type Server struct {
	scraper    ProfileScraper
	store      ProfileReader
	profileURL string
}

func NewServer(scraper ProfileScraper, store ProfileReader, profileURL string) *Server {
	return &Server{scraper: scraper, store: store, profileURL: profileURL}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/api/linkedin/scrape-and-update", s.handleScrapeAndUpdate)
	r.Get("/api/linkedin/profile-data", s.handleProfileData)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScrapeAndUpdate runs the full pipeline synchronously. Only a
// browser-session failure is a 500; any other trouble still yields a 200
// with a fallback-tagged payload.
func (s *Server) handleScrapeAndUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), scrapeTimeout)
	defer cancel()

	rec, err := s.scraper.Scrape(ctx, s.profileURL)
	if err != nil {
		log.Printf("scrape request failed: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, browser.ErrSessionInit) {
			writeJSON(w, status, map[string]string{"error": "browser session could not be started"})
			return
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleProfileData serves the stored record. With ?fallback=false, a
// fallback-tagged record is treated as absent.
func (s *Server) handleProfileData(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.LoadProfile(r.Context())
	if err != nil {
		log.Printf("profile-data read failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read stored profile"})
		return
	}

	empty := rec.BasicInfo.Name == "" && !rec.HasContent()
	if empty {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no profile data available"})
		return
	}
	if r.URL.Query().Get("fallback") == "false" && rec.IsFallback() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "only fallback data available"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: response encoding failed: %v", err)
	}
}
