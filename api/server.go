package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/solhub/solarsched/core/model"
)

// Config holds HTTP server settings.
type Config struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	// Token, when non-empty, is required as "Bearer <token>" on /api routes.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Plan is the result of one optimization run, as served over HTTP.
type Plan struct {
	RunID           string                   `json:"run_id"`
	GeneratedAt     time.Time                `json:"generated_at"`
	Production      []model.ProductionPoint  `json:"production"`
	Categories      []model.CategorizedPoint `json:"categories"`
	Schedule        []model.ScheduleItem     `json:"schedule"`
	Summary         model.Summary            `json:"summary"`
	Recommendations []string                 `json:"recommendations"`
}

// PlanProvider exposes the latest available plan. Latest returns false
// when no optimization run has completed yet.
type PlanProvider interface {
	Latest() (Plan, bool)
}

// NewRouter builds the HTTP routes for the planning API.
func NewRouter(provider PlanProvider, cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Token != "" {
			r.Use(bearerAuth(cfg.Token))
		}
		r.Get("/plan", func(w http.ResponseWriter, _ *http.Request) {
			plan, ok := provider.Latest()
			if !ok {
				http.Error(w, "no plan available", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, plan)
		})
		r.Get("/production", func(w http.ResponseWriter, _ *http.Request) {
			plan, ok := provider.Latest()
			if !ok {
				http.Error(w, "no plan available", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, plan.Categories)
		})
		r.Get("/schedule", func(w http.ResponseWriter, _ *http.Request) {
			plan, ok := provider.Latest()
			if !ok {
				http.Error(w, "no plan available", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, plan.Schedule)
		})
		r.Get("/summary", func(w http.ResponseWriter, _ *http.Request) {
			plan, ok := provider.Latest()
			if !ok {
				http.Error(w, "no plan available", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, plan.Summary)
		})
		r.Get("/recommendations", func(w http.ResponseWriter, _ *http.Request) {
			plan, ok := provider.Latest()
			if !ok {
				http.Error(w, "no plan available", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, plan.Recommendations)
		})
	})

	return r
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
