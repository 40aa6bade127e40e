package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsBoundaryLaws(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 int
		want                       bool
	}{
		{"touching intervals do not overlap", 14 * 60, 15 * 60, 15 * 60, 16 * 60, false},
		{"contained interval overlaps", 14*60 + 15, 14*60 + 45, 14 * 60, 15 * 60, true},
		{"one minute gap does not overlap", 15*60 + 1, 16 * 60, 14 * 60, 15 * 60, false},
		{"identical intervals overlap", 14 * 60, 15 * 60, 14 * 60, 15 * 60, true},
		{"partial overlap", 14 * 60, 15 * 60, 14*60 + 30, 15*60 + 30, true},
		{"zero length inside covering interval", 14*60 + 30, 14*60 + 30, 14 * 60, 15 * 60, true},
		{"zero length at covering start", 14 * 60, 14 * 60, 14 * 60, 15 * 60, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}
