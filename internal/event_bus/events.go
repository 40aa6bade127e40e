package event_bus

import "time"

// Payload types published by the event pipeline. Subscribers receive them
// through SubscribeTyped using the event type names in the comments.

// PreviewSent is published as "pipeline.preview.sent".
type PreviewSent struct {
	Handle       string
	ChatID       int64
	Title        string
	StartDate    string
	HasConflicts bool
}

// AttemptRejected is published as "pipeline.attempt.rejected" when
// validation ends an attempt before any preview exists.
type AttemptRejected struct {
	ChatID  int64
	Outcome string // ambiguous or invalid
	Codes   []string
}

// AttemptClosed is published as "pipeline.attempt.closed" when the user
// dismisses a preview instead of confirming it.
type AttemptClosed struct {
	Handle string
	ChatID int64
	Reason string // cancelled or edit_requested
}

// PreviewExpired is published as "pipeline.preview.expired" when a button
// press references a preview that is no longer pending, whether it timed
// out or was already consumed.
type PreviewExpired struct {
	Handle string
	ChatID int64
}

// EventCreated is published as "pipeline.event.created".
type EventCreated struct {
	Handle          string
	ExternalEventID string
	Title           string
	StartDate       string
	UndoDeadline    time.Time
}

// EventUndone is published as "pipeline.event.undone".
type EventUndone struct {
	Handle          string
	ExternalEventID string
	Title           string
}

// UndoExpired is published as "pipeline.undo.expired" when the undo window
// closes with the creation left in place.
type UndoExpired struct {
	Handle string
	ChatID int64
}
