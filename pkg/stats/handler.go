package stats

import (
	"encoding/json"
	"net/http"
	"time"
)

type SummaryDTO struct {
	Since                 string `json:"since"`
	PreviewsSent          int    `json:"previewsSent"`
	PreviewsWithConflicts int    `json:"previewsWithConflicts"`
	RejectedAmbiguous     int    `json:"rejectedAmbiguous"`
	RejectedInvalid       int    `json:"rejectedInvalid"`
	Cancelled             int    `json:"cancelled"`
	EditRequested         int    `json:"editRequested"`
	Created               int    `json:"created"`
	Undone                int    `json:"undone"`
	UndoExpired           int    `json:"undoExpired"`
	ExpiredPreviewTaps    int    `json:"expiredPreviewTaps"`
}

// Renderer turns a summary into an alternative representation.
type Renderer interface {
	RenderSummary(summary Summary) (string, error)
}

type Handler struct {
	collector *Collector
	renderer  Renderer
}

func NewHandler(collector *Collector, renderer Renderer) *Handler {
	return &Handler{collector, renderer}
}

// GetStats serves the lifecycle counters, as CSV when the client asks for
// text/csv and as JSON otherwise.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	summary := h.collector.Snapshot()

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		body, err := h.renderer.RenderSummary(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(body)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func summaryToDTO(summary Summary) SummaryDTO {
	return SummaryDTO{
		Since:                 summary.Since.Format(time.RFC3339),
		PreviewsSent:          summary.PreviewsSent,
		PreviewsWithConflicts: summary.PreviewsWithConflicts,
		RejectedAmbiguous:     summary.RejectedAmbiguous,
		RejectedInvalid:       summary.RejectedInvalid,
		Cancelled:             summary.Cancelled,
		EditRequested:         summary.EditRequested,
		Created:               summary.Created,
		Undone:                summary.Undone,
		UndoExpired:           summary.UndoExpired,
		ExpiredPreviewTaps:    summary.ExpiredPreviewTaps,
	}
}
