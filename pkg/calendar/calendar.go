package calendar

import (
	"context"
)

// Backend is the external calendar the pipeline creates events on. All three
// operations may fail; callers decide per call whether a failure is fatal
// (create, delete) or degradable (list).
type Backend interface {
	// ListDay returns every event on the given calendar day (YYYY-MM-DD),
	// in the backend's listed order.
	ListDay(ctx context.Context, calendarID string, date string) ([]DayEvent, error)
	Create(ctx context.Context, calendarID string, draft Draft) (*CreatedEvent, error)
	Delete(ctx context.Context, calendarID string, eventID string) error
}
