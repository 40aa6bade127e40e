package validator

import (
	"github.com/agendou/agendou/pkg/nlp"
)

// ValidatedEvent is the canonical event shape the rest of the pipeline works
// with. It is built exactly once from a passing candidate and read-only from
// then on. StartTime and EndTime are always nil for all-day events.
type ValidatedEvent struct {
	Title           string
	StartDate       string // YYYY-MM-DD
	StartTime       *string
	EndTime         *string
	DurationMinutes *int
	AllDay          bool
	Participants    []nlp.Participant
	Description     *string
	Location        *string
}
