package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRendererRenderSummary(t *testing.T) {
	renderer := NewCSVRenderer()
	summary := Summary{
		Since:                 time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		PreviewsSent:          4,
		PreviewsWithConflicts: 1,
		RejectedAmbiguous:     2,
		RejectedInvalid:       3,
		Cancelled:             1,
		EditRequested:         2,
		Created:               3,
		Undone:                1,
		UndoExpired:           2,
		ExpiredPreviewTaps:    5,
	}

	got, err := renderer.RenderSummary(summary)

	require.NoError(t, err)
	want := "metric,value\n" +
		"since,2026-03-10T12:00:00Z\n" +
		"previews_sent,4\n" +
		"previews_with_conflicts,1\n" +
		"rejected_ambiguous,2\n" +
		"rejected_invalid,3\n" +
		"cancelled,1\n" +
		"edit_requested,2\n" +
		"created,3\n" +
		"undone,1\n" +
		"undo_expired,2\n" +
		"expired_preview_taps,5\n"
	assert.Equal(t, want, got)
}
