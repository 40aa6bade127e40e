package conflict

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/pkg/calendar"
	"github.com/agendou/agendou/pkg/validator"
)

// Info describes one existing event that overlaps the candidate.
type Info struct {
	Title           string
	StartTime       string // HH:MM
	EndTime         string
	ExternalEventID string
	EventDate       string // YYYY-MM-DD
}

// Report is the outcome of one conflict check. Conflicts preserve the
// backend's listed order.
type Report struct {
	HasConflicts bool
	Conflicts    []Info
}

// EventSource is the slice of the calendar backend the detector reads from.
type EventSource interface {
	ListDay(ctx context.Context, calendarID string, date string) ([]calendar.DayEvent, error)
}

// Detector flags time overlaps between a validated event and what is already
// on the calendar. It is fail-open: a backend outage is logged and reported
// as "no conflicts", because an unreachable calendar must never block
// creating an event.
type Detector struct {
	source EventSource
}

func NewDetector(source EventSource) *Detector {
	return &Detector{source: source}
}

// Check never returns an error. All-day candidates never conflict in this
// model, and existing all-day entries are skipped for the same reason.
func (d *Detector) Check(ctx context.Context, event *validator.ValidatedEvent, calendarID string) Report {
	if event.AllDay {
		return Report{}
	}
	start, end, ok := candidateSpan(event)
	if !ok {
		return Report{}
	}

	existing, err := d.source.ListDay(ctx, calendarID, event.StartDate)
	if err != nil {
		log.Warnf("Conflict query for %s failed, proceeding without check: %v", event.StartDate, err)
		return Report{}
	}
	if len(existing) == 0 {
		log.Debugf("No existing events on %s", event.StartDate)
		return Report{}
	}

	var conflicts []Info
	for _, other := range existing {
		otherStart, otherEnd, usable := existingSpan(other)
		if !usable {
			continue
		}
		if Overlaps(start, end, otherStart, otherEnd) {
			conflicts = append(conflicts, Info{
				Title:           other.Title,
				StartTime:       other.StartTime,
				EndTime:         other.EndTime,
				ExternalEventID: other.ID,
				EventDate:       event.StartDate,
			})
		}
	}
	return Report{HasConflicts: len(conflicts) > 0, Conflicts: conflicts}
}

// candidateSpan computes the candidate's interval in minutes. The end falls
// back to start+duration when no end time is present, and degenerates to the
// start itself when neither is known. The detector applies no default
// duration; that normalization belongs to the caller.
func candidateSpan(event *validator.ValidatedEvent) (int, int, bool) {
	if event.StartTime == nil {
		return 0, 0, false
	}
	start, err := validator.ClockMinutes(*event.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end := start
	switch {
	case event.EndTime != nil:
		if m, err := validator.ClockMinutes(*event.EndTime); err == nil {
			end = m
		}
	case event.DurationMinutes != nil:
		end = start + *event.DurationMinutes
	}
	s, e := span(start, end)
	return s, e, true
}

func existingSpan(event calendar.DayEvent) (int, int, bool) {
	if event.AllDay || event.StartTime == "" {
		return 0, 0, false
	}
	start, err := validator.ClockMinutes(event.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end := start
	if event.EndTime != "" {
		if m, err := validator.ClockMinutes(event.EndTime); err == nil {
			end = m
		}
	}
	s, e := span(start, end)
	return s, e, true
}
