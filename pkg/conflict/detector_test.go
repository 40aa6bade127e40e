package conflict

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agendou/agendou/pkg/calendar"
	"github.com/agendou/agendou/pkg/nlp"
	"github.com/agendou/agendou/pkg/validator"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func timedEvent(date, start, end string) *validator.ValidatedEvent {
	e := &validator.ValidatedEvent{
		Title:        "Reunião",
		StartDate:    date,
		StartTime:    strPtr(start),
		Participants: []nlp.Participant{},
	}
	if end != "" {
		e.EndTime = strPtr(end)
	}
	return e
}

func TestCheckReportsTrueOverlapsInListedOrder(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Daily", StartTime: "14:00", EndTime: "14:30"},
		{ID: "b", Title: "Almoço", StartTime: "12:00", EndTime: "13:00"},
		{ID: "c", Title: "Review", StartTime: "14:45", EndTime: "15:30"},
	}
	detector := NewDetector(backend)

	report := detector.Check(context.Background(), timedEvent("2026-03-20", "14:15", "15:00"), "primary")

	assert.True(t, report.HasConflicts)
	if assert.Len(t, report.Conflicts, 2) {
		assert.Equal(t, "a", report.Conflicts[0].ExternalEventID)
		assert.Equal(t, "c", report.Conflicts[1].ExternalEventID)
		assert.Equal(t, "Daily", report.Conflicts[0].Title)
		assert.Equal(t, "2026-03-20", report.Conflicts[0].EventDate)
	}
}

func TestCheckTouchingIntervalsAreNotConflicts(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Anterior", StartTime: "13:00", EndTime: "14:00"},
		{ID: "b", Title: "Seguinte", StartTime: "15:00", EndTime: "16:00"},
	}
	detector := NewDetector(backend)

	report := detector.Check(context.Background(), timedEvent("2026-03-20", "14:00", "15:00"), "primary")

	assert.False(t, report.HasConflicts)
	assert.Empty(t, report.Conflicts)
}

func TestCheckFailsOpenWhenBackendIsDown(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.ListErr = errors.New("calendar unreachable")
	detector := NewDetector(backend)

	report := detector.Check(context.Background(), timedEvent("2026-03-20", "14:00", "15:00"), "primary")

	assert.False(t, report.HasConflicts)
	assert.Empty(t, report.Conflicts)
}

func TestCheckAllDayCandidateNeverConflicts(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Daily", StartTime: "09:00", EndTime: "18:00"},
	}
	detector := NewDetector(backend)
	event := &validator.ValidatedEvent{Title: "Congresso", StartDate: "2026-03-20", AllDay: true}

	report := detector.Check(context.Background(), event, "primary")

	assert.False(t, report.HasConflicts)
}

func TestCheckSkipsAllDayAndUnparsableEntries(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Feriado", AllDay: true},
		{ID: "b", Title: "Sem horário"},
		{ID: "c", Title: "Quebrado", StartTime: "25:99"},
	}
	detector := NewDetector(backend)

	report := detector.Check(context.Background(), timedEvent("2026-03-20", "09:00", "18:00"), "primary")

	assert.False(t, report.HasConflicts)
}

func TestCheckUsesDurationWhenEndTimeIsAbsent(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Review", StartTime: "15:00", EndTime: "16:00"},
	}
	detector := NewDetector(backend)
	event := timedEvent("2026-03-20", "14:30", "")
	event.DurationMinutes = intPtr(60)

	report := detector.Check(context.Background(), event, "primary")

	assert.True(t, report.HasConflicts)
}

func TestCheckDurationlessCandidateDegeneratesToInstant(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Review", StartTime: "15:00", EndTime: "16:00"},
	}
	detector := NewDetector(backend)

	// A zero-length candidate at 14:30 touches nothing that starts later.
	report := detector.Check(context.Background(), timedEvent("2026-03-20", "14:30", ""), "primary")
	assert.False(t, report.HasConflicts)

	// The same instant inside a running event still counts.
	report = detector.Check(context.Background(), timedEvent("2026-03-20", "15:30", ""), "primary")
	assert.True(t, report.HasConflicts)
}

func TestCheckHandlesEndPastMidnight(t *testing.T) {
	backend := calendar.NewStubBackend()
	backend.Days["2026-03-20"] = []calendar.DayEvent{
		{ID: "a", Title: "Plantão", StartTime: "23:50", EndTime: "23:59"},
	}
	detector := NewDetector(backend)

	report := detector.Check(context.Background(), timedEvent("2026-03-20", "23:45", "00:15"), "primary")

	assert.True(t, report.HasConflicts)
}
