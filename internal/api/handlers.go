package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyunseo-dev/lckbot/internal/cache"
	"github.com/hyunseo-dev/lckbot/internal/config"
	"github.com/hyunseo-dev/lckbot/internal/db"
	"github.com/hyunseo-dev/lckbot/internal/match"
	"github.com/hyunseo-dev/lckbot/internal/store"
	"github.com/hyunseo-dev/lckbot/internal/team"
)

type handler struct {
	pool  *db.Pool
	store store.Gateway
	cache *cache.Cache
	cfg   *config.Config
	loc   *time.Location
}

func newHandler(pool *db.Pool, gw store.Gateway, appCache *cache.Cache, cfg *config.Config) *handler {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &handler{pool: pool, store: gw, cache: appCache, cfg: cfg, loc: loc}
}

// --------------------------------------------------------------------------
// Health
// --------------------------------------------------------------------------

func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "lckbot",
		"status":  "ok",
	})
}

func (h *handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

// --------------------------------------------------------------------------
// Teams and matches
// --------------------------------------------------------------------------

type teamResponse struct {
	Table string `json:"table"`
	Name  string `json:"name"`
}

func (h *handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams := make([]teamResponse, 0, len(team.Tables()))
	for _, table := range team.Tables() {
		teams = append(teams, teamResponse{Table: table, Name: team.NameFor(table)})
	}
	writeJSON(w, http.StatusOK, teams)
}

type matchResponse struct {
	MatchID       string    `json:"match_id"`
	MatchDate     string    `json:"match_date"`
	MatchTime     string    `json:"match_time,omitempty"`
	MatchDatetime time.Time `json:"match_datetime"`
	Opponent      string    `json:"opponent"`
	Tournament    string    `json:"tournament"`
	League        string    `json:"league"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetTeamMatches returns upcoming stored matches for one tracked team.
// The {team} parameter accepts either a registry alias ("T1", "GEN") or
// the table name itself ("t1_matches").
func (h *handler) GetTeamMatches(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "team")

	table := team.Resolve(param).Table
	if table == "" {
		for _, t := range team.Tables() {
			if t == param {
				table = t
				break
			}
		}
	}
	if table == "" {
		writeError(w, http.StatusNotFound, "unknown team")
		return
	}

	cacheKey := "matches:" + table
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	today := time.Now().In(h.loc).Format(match.DateLayout)
	records, err := h.store.Upcoming(r.Context(), table, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}

	matches := make([]matchResponse, 0, len(records))
	for _, rec := range records {
		matches = append(matches, matchResponse{
			MatchID:       rec.MatchID,
			MatchDate:     rec.MatchDate,
			MatchTime:     rec.MatchTime,
			MatchDatetime: rec.MatchDatetime,
			Opponent:      rec.Opponent,
			Tournament:    rec.Tournament,
			League:        rec.League,
			UpdatedAt:     rec.UpdatedAt,
		})
	}

	data, err := json.Marshal(matches)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode matches")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLMatches)

	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// --------------------------------------------------------------------------
// Response helpers
// --------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
