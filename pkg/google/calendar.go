package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/agendou/agendou/pkg/calendar"
)

// Calendar adapts Google Calendar to the calendar.Backend port. All wall
// clock values it reports are rendered in the fixed reference offset.
type Calendar struct {
	service *gcal.Service
	loc     *time.Location
	offset  string // ±HH:MM, matches loc
}

func newCalendar(service *gcal.Service, loc *time.Location, offset string) *Calendar {
	return &Calendar{service: service, loc: loc, offset: offset}
}

func (c *Calendar) ListDay(ctx context.Context, calendarID string, date string) ([]calendar.DayEvent, error) {
	nextDay, err := dayAfter(date)
	if err != nil {
		return nil, err
	}

	result, err := c.service.Events.List(calendarID).
		TimeMin(instant(date, "00:00", c.offset)).
		TimeMax(instant(nextDay, "00:00", c.offset)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from Google Calendar: %w", err)
	}

	events := make([]calendar.DayEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, c.toDayEvent(item))
	}
	return events, nil
}

func (c *Calendar) toDayEvent(item *gcal.Event) calendar.DayEvent {
	event := calendar.DayEvent{
		ID:    item.Id,
		Title: item.Summary,
	}
	if item.Start == nil || item.Start.Date != "" {
		event.AllDay = true
		return event
	}
	event.StartTime = c.wallClock(item.Start.DateTime)
	if item.End != nil {
		event.EndTime = c.wallClock(item.End.DateTime)
	}
	return event
}

// wallClock extracts HH:MM in the reference offset, or "" when the backend
// value does not parse. Callers treat "" as "no usable time".
func (c *Calendar) wallClock(dateTime string) string {
	parsed, err := time.Parse(time.RFC3339, dateTime)
	if err != nil {
		log.Warnf("Skipping unparseable event time %q: %v", dateTime, err)
		return ""
	}
	return parsed.In(c.loc).Format("15:04")
}

func (c *Calendar) Create(ctx context.Context, calendarID string, draft calendar.Draft) (*calendar.CreatedEvent, error) {
	log.Debugf("Creating event %q on calendar %s", draft.Title, calendarID)
	event := &gcal.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
	}
	if draft.AllDay {
		// Google represents all-day events with an exclusive end date.
		endDate, err := dayAfter(draft.EndDate)
		if err != nil {
			return nil, err
		}
		event.Start = &gcal.EventDateTime{Date: draft.StartDate}
		event.End = &gcal.EventDateTime{Date: endDate}
	} else {
		event.Start = &gcal.EventDateTime{DateTime: instant(draft.StartDate, draft.StartTime, c.offset)}
		event.End = &gcal.EventDateTime{DateTime: instant(draft.EndDate, draft.EndTime, c.offset)}
	}
	for _, email := range draft.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}

	result, err := c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to insert event in Google Calendar: %w", err)
	}
	return &calendar.CreatedEvent{
		ID:       result.Id,
		HTMLLink: result.HtmlLink,
		Start:    eventInstant(result.Start),
		End:      eventInstant(result.End),
	}, nil
}

func (c *Calendar) Delete(ctx context.Context, calendarID string, eventID string) error {
	err := c.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			log.Warnf("Event %s was already gone from Google Calendar", eventID)
			return nil
		}
		return fmt.Errorf("unable to delete event from Google Calendar: %w", err)
	}
	return nil
}

// instant composes the RFC3339 instant textually. The fixed offset must be
// applied verbatim; parsing through the host timezone would shift the event.
func instant(date, clock, offset string) string {
	return fmt.Sprintf("%sT%s:00%s", date, clock, offset)
}

func dayAfter(date string) (string, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return parsed.AddDate(0, 0, 1).Format("2006-01-02"), nil
}

func eventInstant(dt *gcal.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}
