package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/agendou/agendou/internal/utils"
	"github.com/agendou/agendou/pkg/nlp"
)

type Outcome string

const (
	OutcomeValid     Outcome = "valid"
	OutcomeAmbiguous Outcome = "ambiguous"
	OutcomeInvalid   Outcome = "invalid"
)

// Code identifies why a candidate was rejected. Ambiguity text from the
// parser can also travel as a Code verbatim, so the message table treats
// unknown values as already-readable text.
type Code string

const (
	CodeTitleMissing         Code = "title_missing"
	CodeDateMissing          Code = "date_missing"
	CodeTimeMissing          Code = "time_missing"
	CodeTitleLengthInvalid   Code = "title_length_invalid"
	CodeDateFormatInvalid    Code = "date_format_invalid"
	CodeTimeFormatInvalid    Code = "time_format_invalid"
	CodeEndTimeFormatInvalid Code = "end_time_format_invalid"
	CodeDateTooFarFuture     Code = "date_too_far_future"
	CodeDateOutOfRange       Code = "date_out_of_range"
	CodeTimeEndBeforeStart   Code = "time_end_before_start"
)

type Warning string

const (
	WarningRetroactiveSameDay Warning = "date_retroactive_same_day"
	WarningDurationMismatch   Warning = "duration_mismatch_times"
)

// Result is the validator's verdict. Event is set only for OutcomeValid.
// Clarification carries the Portuguese follow-up text shown to the user for
// ambiguous and invalid outcomes.
type Result struct {
	Outcome       Outcome
	Event         *ValidatedEvent
	Errors        []Code
	Warnings      []Warning
	Clarification string
}

const (
	titleMaxLength    = 100
	maxFutureDays     = 365
	durationTolerance = 5 // minutes
)

var (
	dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timeRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// Validator applies the business rules that decide whether a parsed
// candidate becomes an event. It is pure and synchronous: the only ambient
// input is "today", taken from the injected clock in the reference timezone.
type Validator struct {
	clock utils.Clock
	loc   *time.Location
}

func NewValidator(clock utils.Clock, loc *time.Location) *Validator {
	return &Validator{clock: clock, loc: loc}
}

// Validate runs the rule chain in order. The first two rules are terminal
// (parser errors and ambiguities decide the outcome on their own); the rest
// accumulate errors and warnings and the verdict falls out at the end.
func (v *Validator) Validate(c nlp.ParsedCandidate) Result {
	if c.Status == nlp.StatusError {
		return invalidFromParserError(c)
	}
	if len(c.Ambiguities) > 0 {
		return resolveAmbiguities(c.Ambiguities)
	}

	var errors []Code
	var warnings []Warning

	// Required fields.
	title := ""
	if c.Title != nil {
		title = *c.Title
	}
	if title == "" {
		errors = append(errors, CodeTitleMissing)
	} else if utf8.RuneCountInString(title) > titleMaxLength {
		errors = append(errors, CodeTitleLengthInvalid)
	}
	if c.StartDate == nil {
		errors = append(errors, CodeDateMissing)
	}
	if !c.AllDay && c.StartTime == nil {
		errors = append(errors, CodeTimeMissing)
	}

	// Date format and range. Range rules compare calendar days only: a past
	// clock time today is a warning, a past day is a rejection.
	var day time.Time
	dayOk := false
	if c.StartDate != nil {
		if d, ok := v.parseDate(*c.StartDate); ok {
			day, dayOk = d, true
		} else {
			errors = append(errors, CodeDateFormatInvalid)
		}
	}
	if dayOk {
		today := v.today()
		switch {
		case day.Before(today):
			errors = append(errors, CodeDateOutOfRange)
		case day.After(today.AddDate(0, 0, maxFutureDays)):
			errors = append(errors, CodeDateTooFarFuture)
		}
	}

	// Time formats. Skipped for all-day events, whose times are discarded.
	startMinutes, endMinutes := -1, -1
	if !c.AllDay {
		if c.StartTime != nil {
			if m, ok := parseClock(*c.StartTime); ok {
				startMinutes = m
			} else {
				errors = append(errors, CodeTimeFormatInvalid)
			}
		}
		if c.EndTime != nil {
			if m, ok := parseClock(*c.EndTime); ok {
				endMinutes = m
			} else {
				errors = append(errors, CodeEndTimeFormatInvalid)
			}
		}
	}

	if dayOk && startMinutes >= 0 && v.isToday(day) {
		now := v.clock.Now().In(v.loc)
		if startMinutes < now.Hour()*60+now.Minute() {
			warnings = append(warnings, WarningRetroactiveSameDay)
		}
	}

	// Logical consistency between the two times and the stated duration.
	if startMinutes >= 0 && endMinutes >= 0 {
		if endMinutes <= startMinutes {
			errors = append(errors, CodeTimeEndBeforeStart)
		} else if c.DurationMinutes != nil {
			diff := endMinutes - startMinutes - *c.DurationMinutes
			if diff < -durationTolerance || diff > durationTolerance {
				warnings = append(warnings, WarningDurationMismatch)
			}
		}
	}

	if len(errors) > 0 {
		return Result{
			Outcome:       OutcomeInvalid,
			Errors:        errors,
			Warnings:      warnings,
			Clarification: clarificationForCodes(errors),
		}
	}

	return Result{
		Outcome:  OutcomeValid,
		Event:    buildEvent(c, title),
		Warnings: warnings,
	}
}

func invalidFromParserError(c nlp.ParsedCandidate) Result {
	reason := Code(parseFailedMessage)
	if len(c.Ambiguities) > 0 {
		reason = Code(c.Ambiguities[0])
	}
	return Result{Outcome: OutcomeInvalid, Errors: []Code{reason}}
}

// resolveAmbiguities decides between Invalid and Ambiguous. Impossible-date
// tags outrank vagueness: a message that names February 30th is wrong, not
// unclear, and asking a follow-up question would not fix it.
func resolveAmbiguities(tags []string) Result {
	var invalidDates []Code
	for _, tag := range tags {
		if isInvalidDateTag(tag) {
			invalidDates = append(invalidDates, Code(tag))
		}
	}
	if len(invalidDates) > 0 {
		return Result{
			Outcome:       OutcomeInvalid,
			Errors:        invalidDates,
			Clarification: clarificationForCodes([]Code{CodeDateFormatInvalid}),
		}
	}
	return Result{
		Outcome:       OutcomeAmbiguous,
		Clarification: clarificationForAmbiguities(tags),
	}
}

func buildEvent(c nlp.ParsedCandidate, title string) *ValidatedEvent {
	event := &ValidatedEvent{
		Title:           title,
		StartDate:       *c.StartDate,
		DurationMinutes: c.DurationMinutes,
		AllDay:          c.AllDay,
		Participants:    c.Participants,
		Description:     c.Description,
		Location:        c.Location,
	}
	if event.Participants == nil {
		event.Participants = []nlp.Participant{}
	}
	if !c.AllDay {
		event.StartTime = c.StartTime
		event.EndTime = c.EndTime
	}
	return event
}

func (v *Validator) today() time.Time {
	now := v.clock.Now().In(v.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
}

func (v *Validator) isToday(day time.Time) bool {
	return day.Equal(v.today())
}

// parseDate accepts YYYY-MM-DD and verifies the components name a real
// calendar day by round-tripping them through time.Date.
func (v *Validator) parseDate(s string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	dayOfMonth, _ := strconv.Atoi(m[3])
	d := time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, v.loc)
	if d.Year() != year || int(d.Month()) != month || d.Day() != dayOfMonth {
		return time.Time{}, false
	}
	return d, true
}

// parseClock accepts 24-hour HH:MM and returns minutes since midnight.
func parseClock(s string) (int, bool) {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// ClockMinutes exposes the HH:MM parser for packages that reason about the
// same clock grammar.
func ClockMinutes(s string) (int, error) {
	m, ok := parseClock(s)
	if !ok {
		return 0, fmt.Errorf("validator: %q is not a valid HH:MM time", s)
	}
	return m, nil
}
