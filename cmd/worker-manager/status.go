package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kisan-intent/internal/intent"
	"kisan-intent/internal/session"
	"kisan-intent/internal/training"
	"kisan-intent/pkg/registry"
)

type statusDeps struct {
	ready      func(context.Context) error
	engine     *intent.Engine
	sessions   *session.Manager
	report     training.Report
	workers    func() []string
	activities *registry.ActivityRegistry
}

func newStatusMux(deps statusDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if deps.ready != nil {
			if err := deps.ready(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
					"status": "not_ready",
					"error":  err.Error(),
					"time":   time.Now().Format(time.RFC3339),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// /status reports what the engine was built from.
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"training": deps.report,
		}
		if deps.engine != nil {
			body["corpus"] = deps.engine.Corpus().Stats()
			body["scorer"] = deps.engine.ScorerConfig()
		}
		if deps.sessions != nil {
			body["sessions"] = deps.sessions.Len()
		}
		if deps.workers != nil {
			body["workers"] = deps.workers()
		}
		writeJSON(w, http.StatusOK, body)
	})

	mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
		if deps.activities == nil {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": "no activity registry"})
			return
		}
		writeJSON(w, http.StatusOK, deps.activities)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
