package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type CSVRenderer struct {
}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// RenderSummary renders the counters as two-column CSV, one metric per row.
func (r *CSVRenderer) RenderSummary(summary Summary) (string, error) {
	rows := [][]string{
		{"metric", "value"},
		{"since", summary.Since.Format(time.RFC3339)},
		{"previews_sent", strconv.Itoa(summary.PreviewsSent)},
		{"previews_with_conflicts", strconv.Itoa(summary.PreviewsWithConflicts)},
		{"rejected_ambiguous", strconv.Itoa(summary.RejectedAmbiguous)},
		{"rejected_invalid", strconv.Itoa(summary.RejectedInvalid)},
		{"cancelled", strconv.Itoa(summary.Cancelled)},
		{"edit_requested", strconv.Itoa(summary.EditRequested)},
		{"created", strconv.Itoa(summary.Created)},
		{"undone", strconv.Itoa(summary.Undone)},
		{"undo_expired", strconv.Itoa(summary.UndoExpired)},
		{"expired_preview_taps", strconv.Itoa(summary.ExpiredPreviewTaps)},
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
