package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type statusDTO struct {
	UptimeSeconds   int `json:"uptimeSeconds"`
	PendingPreviews int `json:"pendingPreviews"`
	LiveUndoEntries int `json:"liveUndoEntries"`
}

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, startedAt time.Time) {

	// Liveness
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Errorf("Failed to write healthz response: %v", err)
		}
	}).Methods("GET")

	// Runtime status
	r.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		status := statusDTO{
			UptimeSeconds:   int(time.Since(startedAt).Seconds()),
			PendingPreviews: deps.Previews.Len(),
			LiveUndoEntries: deps.UndoStore.Len(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Errorf("Failed to encode status response: %v", err)
		}
	}).Methods("GET")

	// Creation journal
	r.HandleFunc("/api/events/recent", deps.HistoryHandler.RecentEvents).Methods("GET")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")
}
