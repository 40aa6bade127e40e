package event

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultRecentLimit = 5

type EntryDTO struct {
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	StartDate       string `json:"startDate"`
	ExternalEventID string `json:"externalEventId"`
	CreatedAt       string `json:"createdAt"`
	UndoDeadline    string `json:"undoDeadline"`
	Undone          bool   `json:"undone"`
}

type Handler struct {
	history *History
}

func NewHandler(history *History) *Handler {
	return &Handler{history}
}

// RecentEvents returns the newest journal entries, newest first. An optional
// limit query parameter overrides the default of 5.
func (h *Handler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting recent events")

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries := h.history.Recent(limit)
	response := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		response = append(response, entryToDTO(entry))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Handle:          entry.Handle,
		Title:           entry.Title,
		StartDate:       entry.StartDate,
		ExternalEventID: entry.ExternalEventID,
		CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
		UndoDeadline:    entry.UndoDeadline.Format(time.RFC3339),
		Undone:          entry.Undone,
	}
}
