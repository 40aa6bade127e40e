package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agendou/agendou/internal/utils"
	"github.com/agendou/agendou/pkg/nlp"
)

var refZone = time.FixedZone("-03:00", -3*60*60)

// Fixed "now": 2026-03-10 12:00 in the reference timezone.
func testValidator() *Validator {
	clock := &utils.MockClock{FixedNow: time.Date(2026, 3, 10, 12, 0, 0, 0, refZone)}
	return NewValidator(clock, refZone)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func candidate(title, date, start string) nlp.ParsedCandidate {
	c := nlp.ParsedCandidate{Status: nlp.StatusSuccess}
	if title != "" {
		c.Title = strPtr(title)
	}
	if date != "" {
		c.StartDate = strPtr(date)
	}
	if start != "" {
		c.StartTime = strPtr(start)
	}
	return c
}

func TestValidateAcceptsCompleteCandidate(t *testing.T) {
	v := testValidator()
	c := candidate("Reunião com a Maria", "2026-03-20", "14:30")
	c.EndTime = strPtr("15:30")

	result := v.Validate(c)

	assert.Equal(t, OutcomeValid, result.Outcome)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	if assert.NotNil(t, result.Event) {
		assert.Equal(t, "Reunião com a Maria", result.Event.Title)
		assert.Equal(t, "2026-03-20", result.Event.StartDate)
		assert.Equal(t, "14:30", *result.Event.StartTime)
		assert.Equal(t, "15:30", *result.Event.EndTime)
		assert.NotNil(t, result.Event.Participants)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name      string
		candidate nlp.ParsedCandidate
		wantCode  Code
	}{
		{"missing title", candidate("", "2026-03-20", "14:30"), CodeTitleMissing},
		{"missing date", candidate("Dentista", "", "14:30"), CodeDateMissing},
		{"missing time", candidate("Dentista", "2026-03-20", ""), CodeTimeMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.candidate)

			assert.Equal(t, OutcomeInvalid, result.Outcome)
			assert.Contains(t, result.Errors, tt.wantCode)
			assert.NotEmpty(t, result.Clarification)
		})
	}
}

func TestValidateAllDaySkipsTimeRequirement(t *testing.T) {
	v := testValidator()
	c := candidate("Congresso de TI", "2026-03-20", "")
	c.AllDay = true
	c.StartTime = strPtr("14:30") // supplied but irrelevant for all-day

	result := v.Validate(c)

	assert.Equal(t, OutcomeValid, result.Outcome)
	assert.True(t, result.Event.AllDay)
	assert.Nil(t, result.Event.StartTime)
	assert.Nil(t, result.Event.EndTime)
}

func TestValidateTitleLengthBoundaries(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		title   string
		outcome Outcome
	}{
		{"one char", "x", OutcomeValid},
		{"exactly 100", strings.Repeat("a", 100), OutcomeValid},
		{"101 chars", strings.Repeat("a", 101), OutcomeInvalid},
		{"100 runes with accents", strings.Repeat("ã", 100), OutcomeValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(candidate(tt.title, "2026-03-20", "14:30"))

			assert.Equal(t, tt.outcome, result.Outcome)
			if tt.outcome == OutcomeInvalid {
				assert.Contains(t, result.Errors, CodeTitleLengthInvalid)
			}
		})
	}
}

func TestValidateRejectsImpossibleCalendarDay(t *testing.T) {
	v := testValidator()

	for _, date := range []string{"2026-02-30", "2026-04-31", "2026-13-01", "2026-00-10"} {
		result := v.Validate(candidate("Dentista", date, "14:30"))

		assert.Equal(t, OutcomeInvalid, result.Outcome, date)
		assert.Contains(t, result.Errors, CodeDateFormatInvalid, date)
	}
}

func TestValidateRejectsUnparseableDate(t *testing.T) {
	v := testValidator()

	result := v.Validate(candidate("Dentista", "20/03/2026", "14:30"))

	assert.Equal(t, OutcomeInvalid, result.Outcome)
	assert.Contains(t, result.Errors, CodeDateFormatInvalid)
}

func TestValidateDateRangeBoundaries(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name     string
		date     string
		outcome  Outcome
		wantCode Code
	}{
		{"today", "2026-03-10", OutcomeValid, ""},
		{"yesterday", "2026-03-09", OutcomeInvalid, CodeDateOutOfRange},
		{"365 days out", "2027-03-10", OutcomeValid, ""},
		{"366 days out", "2027-03-11", OutcomeInvalid, CodeDateTooFarFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(candidate("Dentista", tt.date, "18:00"))

			assert.Equal(t, tt.outcome, result.Outcome)
			if tt.wantCode != "" {
				assert.Contains(t, result.Errors, tt.wantCode)
			}
		})
	}
}

func TestValidateTodayWithPastTimeOnlyWarns(t *testing.T) {
	v := testValidator() // clock fixed at 12:00

	result := v.Validate(candidate("Dentista", "2026-03-10", "09:00"))

	assert.Equal(t, OutcomeValid, result.Outcome)
	assert.Contains(t, result.Warnings, WarningRetroactiveSameDay)
}

func TestValidateTodayWithFutureTimeHasNoWarning(t *testing.T) {
	v := testValidator()

	result := v.Validate(candidate("Dentista", "2026-03-10", "15:00"))

	assert.Equal(t, OutcomeValid, result.Outcome)
	assert.Empty(t, result.Warnings)
}

func TestValidateClockFormats(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name     string
		start    string
		end      string
		wantCode Code
	}{
		{"hour out of range", "25:00", "", CodeTimeFormatInvalid},
		{"minute out of range", "14:60", "", CodeTimeFormatInvalid},
		{"single digit hour", "9:00", "", CodeTimeFormatInvalid},
		{"bad end time", "14:00", "quinze horas", CodeEndTimeFormatInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate("Dentista", "2026-03-20", tt.start)
			if tt.end != "" {
				c.EndTime = strPtr(tt.end)
			}

			result := v.Validate(c)

			assert.Equal(t, OutcomeInvalid, result.Outcome)
			assert.Contains(t, result.Errors, tt.wantCode)
		})
	}
}

func TestValidateEndMustBeAfterStart(t *testing.T) {
	v := testValidator()

	for _, end := range []string{"14:30", "14:00"} {
		c := candidate("Dentista", "2026-03-20", "14:30")
		c.EndTime = strPtr(end)

		result := v.Validate(c)

		assert.Equal(t, OutcomeInvalid, result.Outcome, end)
		assert.Contains(t, result.Errors, CodeTimeEndBeforeStart, end)
	}
}

func TestValidateDurationMismatchIsOnlyAWarning(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name     string
		duration int
		warned   bool
	}{
		{"exact match", 60, false},
		{"within tolerance", 55, false},
		{"outside tolerance", 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate("Dentista", "2026-03-20", "14:00")
			c.EndTime = strPtr("15:00")
			c.DurationMinutes = intPtr(tt.duration)

			result := v.Validate(c)

			assert.Equal(t, OutcomeValid, result.Outcome)
			if tt.warned {
				assert.Contains(t, result.Warnings, WarningDurationMismatch)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestValidateKeepsZeroDuration(t *testing.T) {
	v := testValidator()
	c := candidate("Lembrete", "2026-03-20", "09:00")
	c.DurationMinutes = intPtr(0)

	result := v.Validate(c)

	assert.Equal(t, OutcomeValid, result.Outcome)
	if assert.NotNil(t, result.Event.DurationMinutes) {
		assert.Equal(t, 0, *result.Event.DurationMinutes)
	}
}

func TestValidateAmbiguousCandidateAsksFollowUp(t *testing.T) {
	v := testValidator()
	c := candidate("Dentista", "", "")
	c.Status = nlp.StatusAmbiguous
	c.Ambiguities = []string{"data vaga: semana que vem", "horário vago: de manhã"}

	result := v.Validate(c)

	assert.Equal(t, OutcomeAmbiguous, result.Outcome)
	assert.Contains(t, result.Clarification, "Qual é a data exata do evento?")
	assert.Contains(t, result.Clarification, "Qual é o horário exato do evento?")
}

func TestValidateUnknownAmbiguityIsEchoed(t *testing.T) {
	v := testValidator()
	c := candidate("Dentista", "", "")
	c.Status = nlp.StatusAmbiguous
	c.Ambiguities = []string{"mensagem cita dois eventos diferentes"}

	result := v.Validate(c)

	assert.Equal(t, OutcomeAmbiguous, result.Outcome)
	assert.Equal(t, "mensagem cita dois eventos diferentes", result.Clarification)
}

func TestValidateInvalidDateTagOutranksVagueness(t *testing.T) {
	v := testValidator()
	c := candidate("Dentista", "", "")
	c.Status = nlp.StatusAmbiguous
	c.Ambiguities = []string{"horário vago: de tarde", "data inválida: 30 de fevereiro"}

	result := v.Validate(c)

	assert.Equal(t, OutcomeInvalid, result.Outcome)
	assert.Equal(t, []Code{Code("data inválida: 30 de fevereiro")}, result.Errors)
}

func TestValidateParserErrorPassesReasonThrough(t *testing.T) {
	v := testValidator()

	result := v.Validate(nlp.ErrorCandidate("mensagem vazia"))

	assert.Equal(t, OutcomeInvalid, result.Outcome)
	assert.Equal(t, []Code{Code("mensagem vazia")}, result.Errors)
	assert.Empty(t, result.Clarification)
}

func TestClockMinutes(t *testing.T) {
	m, err := ClockMinutes("14:30")
	assert.NoError(t, err)
	assert.Equal(t, 14*60+30, m)

	_, err = ClockMinutes("24:00")
	assert.Error(t, err)
}
