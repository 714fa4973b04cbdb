// Package api provides the HTTP API for observing and steering the wildlife
// population limit.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/wildlife-control/internal/engine"
	"github.com/talgya/wildlife-control/internal/persistence"
	"github.com/talgya/wildlife-control/internal/settings"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	DB       *persistence.DB // Optional; nil disables persisted history and saving.
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// AdminLimiter throttles admin requests per client IP. Nil uses 60/minute.
	AdminLimiter *RateLimiter
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	limiter := s.AdminLimiter
	if limiter == nil {
		limiter = NewRateLimiter(60, time.Minute)
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return RateLimitMiddleware(limiter, s.adminOnly(h))
	}

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/maps", s.handleMaps)
	mux.HandleFunc("GET /api/v1/map/{id}/ranking", s.handleRanking)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/removals", s.handleRemovals)
	mux.HandleFunc("GET /api/v1/settings", s.handleSettings)

	// Admin endpoints.
	mux.HandleFunc("POST /api/v1/settings", admin(s.handleSetSettings))
	mux.HandleFunc("POST /api/v1/settings/restore-defaults", admin(s.handleRestoreDefaults))
	mux.HandleFunc("POST /api/v1/check", admin(s.handleCheck))
	mux.HandleFunc("POST /api/v1/snapshot", admin(s.handleSnapshot))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine. The returned server can
// be shut down by the caller.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no WILDSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// queryLimit parses ?limit=, falling back to def outside [1, upper].
func queryLimit(r *http.Request, def, upper int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= upper {
			return n
		}
	}
	return def
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Status())
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.MapSummaries())
}

// handleRanking previews the removal order of a map's wild animals without
// removing anything.
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ranked, ok := s.Sim.Ranking(id, queryLimit(r, 20, 1000))
	if !ok {
		http.Error(w, "map not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"map_id":           id,
		"max_wild_animals": s.Sim.Settings.MaxWildAnimals(),
		"ranking":          ranked,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.RecentEvents(queryLimit(r, 50, 500)))
}

// handleRemovals lists removals newest first: those not yet saved, then the
// database history.
func (s *Server) handleRemovals(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 500)

	records := s.Sim.PendingRemovals()
	if len(records) > limit {
		records = records[:limit]
	}
	if s.DB != nil && len(records) < limit {
		saved, err := s.DB.RecentRemovals(limit - len(records))
		if err != nil {
			slog.Error("removal history query failed", "error", err)
			http.Error(w, "removal history unavailable", http.StatusInternalServerError)
			return
		}
		records = append(records, saved...)
	}
	if records == nil {
		records = []engine.RemovalRecord{}
	}
	writeJSON(w, records)
}

type settingsView struct {
	Category       string `json:"category"`
	Key            string `json:"key"`
	Label          string `json:"label"`
	MaxWildAnimals int    `json:"max_wild_animals"`
	Min            int    `json:"min"`
	Max            int    `json:"max"`
	Default        int    `json:"default"`
}

func (s *Server) settingsView() settingsView {
	return settingsView{
		Category:       settings.Category,
		Key:            settings.Key,
		Label:          s.Sim.Settings.Label(),
		MaxWildAnimals: s.Sim.Settings.MaxWildAnimals(),
		Min:            settings.MinWildAnimals,
		Max:            settings.MaxWildAnimals,
		Default:        settings.DefaultMaxWildAnimals,
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.settingsView())
}

func (s *Server) handleSetSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MaxWildAnimals *int `json:"max_wild_animals"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.MaxWildAnimals == nil {
		http.Error(w, "max_wild_animals is required", http.StatusBadRequest)
		return
	}

	applied := s.Sim.Settings.SetMaxWildAnimals(*req.MaxWildAnimals)
	slog.Info("wild animal limit changed", "requested", *req.MaxWildAnimals, "applied", applied)
	if !s.persistSettings(w) {
		return
	}
	writeJSON(w, s.settingsView())
}

func (s *Server) handleRestoreDefaults(w http.ResponseWriter, r *http.Request) {
	s.Sim.Settings.RestoreDefaults()
	slog.Info("wild animal limit restored to default", "max_wild_animals", s.Sim.Settings.MaxWildAnimals())
	if !s.persistSettings(w) {
		return
	}
	writeJSON(w, s.settingsView())
}

func (s *Server) persistSettings(w http.ResponseWriter) bool {
	if s.DB == nil {
		return true
	}
	if err := settings.Save(s.DB, s.Sim.Settings); err != nil {
		slog.Error("settings save failed", "error", err)
		http.Error(w, "settings save failed", http.StatusInternalServerError)
		return false
	}
	return true
}

// handleCheck runs a population check immediately, rescheduling the next one.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	res := s.Sim.ForceCheck()
	writeJSON(w, map[string]any{
		"zones_checked":    res.ZonesChecked,
		"removals":         res.Removals,
		"removal_occurred": res.RemovalOccurred(),
		"capper":           s.Sim.Capper.State(),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	snap := s.Sim.Snapshot()
	if err := s.DB.SaveWorldState(snap); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	if err := s.DB.FlushRemovals(s.Sim); err != nil {
		slog.Error("removal save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"tick":    snap.Tick,
		"message": "snapshot saved",
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
