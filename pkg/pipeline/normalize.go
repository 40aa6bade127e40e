package pipeline

import (
	"fmt"
	"time"

	"github.com/agendou/agendou/pkg/calendar"
	"github.com/agendou/agendou/pkg/validator"
)

// normalize turns a validated event into the draft handed to the calendar
// backend. This is where the default duration applies: only when the user
// gave neither an end time nor an explicit duration. An explicit duration of
// zero stays zero.
//
// A computed end that crosses midnight rolls the end date to the next
// calendar day instead of producing an end numerically before the start.
func normalize(event *validator.ValidatedEvent, defaultDurationMinutes int, ownerEmail string) calendar.Draft {
	draft := calendar.Draft{
		Title:     event.Title,
		StartDate: event.StartDate,
		EndDate:   event.StartDate,
		AllDay:    event.AllDay,
		Attendees: attendees(event, ownerEmail),
	}
	if event.Description != nil {
		draft.Description = *event.Description
	}
	if event.Location != nil {
		draft.Location = *event.Location
	}
	if event.AllDay {
		return draft
	}

	draft.StartTime = *event.StartTime
	if event.EndTime != nil {
		draft.EndTime = *event.EndTime
		return draft
	}

	duration := defaultDurationMinutes
	if event.DurationMinutes != nil {
		duration = *event.DurationMinutes
	}
	startMinutes, err := validator.ClockMinutes(draft.StartTime)
	if err != nil {
		// Unreachable for validated events; keep the degenerate shape.
		draft.EndTime = draft.StartTime
		return draft
	}
	endMinutes := startMinutes + duration
	if endMinutes >= 24*60 {
		endMinutes -= 24 * 60
		draft.EndDate = nextDay(event.StartDate)
	}
	draft.EndTime = fmt.Sprintf("%02d:%02d", endMinutes/60, endMinutes%60)
	return draft
}

// attendees keeps the fixed owner first and appends only participants whose
// e-mail actually resolved. Unresolved names would bounce at the backend.
func attendees(event *validator.ValidatedEvent, ownerEmail string) []string {
	list := []string{ownerEmail}
	for _, p := range event.Participants {
		if !p.Resolved || p.Email == "" || p.Email == ownerEmail {
			continue
		}
		list = append(list, p.Email)
	}
	return list
}

func nextDay(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.AddDate(0, 0, 1).Format("2006-01-02")
}
