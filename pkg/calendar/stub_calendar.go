package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// StubBackend is an in-memory Backend for tests. Days map a YYYY-MM-DD date
// to the events already on it; the error fields force the corresponding
// operation to fail.
type StubBackend struct {
	Days      map[string][]DayEvent
	ListErr   error
	CreateErr error
	DeleteErr error

	Created []Draft
	Deleted []string
}

func NewStubBackend() *StubBackend {
	return &StubBackend{Days: map[string][]DayEvent{}}
}

func (s *StubBackend) ListDay(_ context.Context, _ string, date string) ([]DayEvent, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Days[date], nil
}

func (s *StubBackend) Create(_ context.Context, _ string, draft Draft) (*CreatedEvent, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.Created = append(s.Created, draft)
	id := uuid.NewString()
	s.Days[draft.StartDate] = append(s.Days[draft.StartDate], DayEvent{
		ID:        id,
		Title:     draft.Title,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		AllDay:    draft.AllDay,
	})
	return &CreatedEvent{
		ID:       id,
		HTMLLink: fmt.Sprintf("https://calendar.example.com/event/%s", id),
		Start:    draft.StartDate + "T" + draft.StartTime,
		End:      draft.EndDate + "T" + draft.EndTime,
	}, nil
}

func (s *StubBackend) Delete(_ context.Context, _ string, eventID string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for date, events := range s.Days {
		for i, event := range events {
			if event.ID == eventID {
				s.Days[date] = append(events[:i], events[i+1:]...)
				s.Deleted = append(s.Deleted, eventID)
				return nil
			}
		}
	}
	return errors.New("event with given id not found")
}
