package pipeline

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/internal/config"
	"github.com/agendou/agendou/internal/event_bus"
	"github.com/agendou/agendou/internal/utils"
	"github.com/agendou/agendou/pkg/calendar"
	"github.com/agendou/agendou/pkg/conflict"
	"github.com/agendou/agendou/pkg/nlp"
	"github.com/agendou/agendou/pkg/preview"
	"github.com/agendou/agendou/pkg/telegram"
	"github.com/agendou/agendou/pkg/undo"
	"github.com/agendou/agendou/pkg/validator"
)

// Messenger is the slice of the chat transport the pipeline drives.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) (int, error)
	EditMessageKeyboard(ctx context.Context, chatID int64, messageID int, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}

// Deps collects the orchestrator's collaborators.
type Deps struct {
	Parser    nlp.Parser
	Validator *validator.Validator
	Detector  *conflict.Detector
	Backend   calendar.Backend
	UndoStore *undo.Store
	Previews  *preview.Cache
	Messenger Messenger
	Bus       *event_bus.EventBus
	Clock     utils.Clock
	Scheduler utils.Scheduler
	Location  *time.Location
}

// Orchestrator walks one message at a time through parse, validation,
// conflict check, preview and, on confirmation, creation with a time-boxed
// undo. Every attempt is keyed by its own opaque handle, so nothing here
// depends on "the current attempt" of a chat; two rapid messages simply
// produce two independent previews.
type Orchestrator struct {
	deps        Deps
	calendarID  string
	eventCfg    config.Event
	llmTimeout  time.Duration
	calTimeout  time.Duration
	sendTimeout time.Duration
}

func NewOrchestrator(deps Deps, cfg config.Application) *Orchestrator {
	return &Orchestrator{
		deps:        deps,
		calendarID:  cfg.Google.CalendarID,
		eventCfg:    cfg.Event,
		llmTimeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		calTimeout:  time.Duration(cfg.Google.TimeoutSeconds) * time.Second,
		sendTimeout: time.Duration(cfg.Telegram.SendTimeoutSeconds) * time.Second,
	}
}

// HandleText runs a fresh creation attempt for one incoming message. All
// failures end in a user-visible reply; nothing escapes to the caller.
func (o *Orchestrator) HandleText(ctx context.Context, chatID int64, text string) {
	candidate := o.parse(ctx, text)
	result := o.deps.Validator.Validate(candidate)

	if result.Outcome != validator.OutcomeValid {
		o.publish(ctx, "pipeline.attempt.rejected", event_bus.AttemptRejected{
			ChatID:  chatID,
			Outcome: string(result.Outcome),
			Codes:   codeStrings(result.Errors),
		})
		o.send(ctx, chatID, renderRejection(result), nil)
		return
	}

	validated := result.Event
	draft := normalize(validated, o.eventCfg.DefaultDurationMinutes, o.eventCfg.OwnerEmail)
	report := o.checkConflicts(ctx, validated, draft)

	handle := newHandle(o.deps.Clock.Now())
	previewText := renderPreview(draft, validated, report, result.Warnings)
	sctx, cancel := context.WithTimeout(ctx, o.sendTimeout)
	messageID, err := o.deps.Messenger.SendMessage(sctx, chatID, previewText, previewKeyboard(handle))
	cancel()
	if err != nil {
		log.Errorf("Error sending preview %s for %q: %v", handle, draft.Title, err)
		return
	}

	o.deps.Previews.Put(preview.Pending{
		Handle:    handle,
		ChatID:    chatID,
		MessageID: messageID,
		Event:     validated,
		Report:    report,
		Warnings:  result.Warnings,
	})
	o.publish(ctx, "pipeline.preview.sent", event_bus.PreviewSent{
		Handle:       handle,
		ChatID:       chatID,
		Title:        draft.Title,
		StartDate:    draft.StartDate,
		HasConflicts: report.HasConflicts,
	})
}

// HandleAction routes one button press. The handle inside the callback data
// decides which attempt it belongs to.
func (o *Orchestrator) HandleAction(ctx context.Context, chatID int64, messageID int, callbackID string, data string) {
	verb, handle, ok := splitAction(data)
	if !ok {
		log.Warnf("Ignoring malformed callback data %q", data)
		o.answer(ctx, callbackID, "")
		return
	}
	switch verb {
	case actionConfirm:
		o.confirm(ctx, chatID, messageID, callbackID, handle)
	case actionEdit:
		o.closePreview(ctx, chatID, messageID, callbackID, handle, "edit_requested", msgEditPrompt)
	case actionCancel:
		o.closePreview(ctx, chatID, messageID, callbackID, handle, "cancelled", msgCancelled)
	case actionUndo:
		o.undoCreation(ctx, chatID, messageID, callbackID, handle)
	case actionNoop:
		o.answer(ctx, callbackID, "")
	default:
		log.Warnf("Ignoring unknown callback action %q", verb)
		o.answer(ctx, callbackID, "")
	}
}

// parse always yields a candidate. Empty input and parser outages become
// error candidates carrying a user-readable reason, never a propagated
// failure.
func (o *Orchestrator) parse(ctx context.Context, text string) nlp.ParsedCandidate {
	if strings.TrimSpace(text) == "" {
		return nlp.ErrorCandidate(msgEmptyInput)
	}
	pctx, cancel := context.WithTimeout(ctx, o.llmTimeout)
	defer cancel()
	candidate, err := o.deps.Parser.Parse(pctx, text, o.deps.Clock.Now().In(o.deps.Location))
	if err != nil {
		log.Errorf("Parser failed: %v", err)
		return nlp.ErrorCandidate(msgParserDown)
	}
	return candidate
}

// checkConflicts probes with the normalized end time, so an event that only
// stated a duration is checked with its real interval.
func (o *Orchestrator) checkConflicts(ctx context.Context, validated *validator.ValidatedEvent, draft calendar.Draft) conflict.Report {
	probe := *validated
	if !probe.AllDay {
		endTime := draft.EndTime
		probe.EndTime = &endTime
	}
	cctx, cancel := context.WithTimeout(ctx, o.calTimeout)
	defer cancel()
	return o.deps.Detector.Check(cctx, &probe, o.calendarID)
}

func (o *Orchestrator) confirm(ctx context.Context, chatID int64, messageID int, callbackID string, handle string) {
	pending := o.deps.Previews.Consume(handle)
	if pending == nil {
		o.expirePreview(ctx, chatID, messageID, callbackID, handle)
		return
	}
	o.answer(ctx, callbackID, "")

	draft := normalize(pending.Event, o.eventCfg.DefaultDurationMinutes, o.eventCfg.OwnerEmail)
	cctx, cancel := context.WithTimeout(ctx, o.calTimeout)
	created, err := o.deps.Backend.Create(cctx, o.calendarID, draft)
	cancel()
	if err != nil {
		// A failed creation leaves no undo registration behind.
		log.Errorf("Error creating event %q for attempt %s: %v", draft.Title, handle, err)
		o.send(ctx, chatID, msgCreateFailed, nil)
		return
	}

	record := o.deps.UndoStore.Register(handle, undo.Record{
		ExternalEventID: created.ID,
		CalendarID:      o.calendarID,
		EventTitle:      draft.Title,
	})
	o.publish(ctx, "pipeline.event.created", event_bus.EventCreated{
		Handle:          handle,
		ExternalEventID: created.ID,
		Title:           draft.Title,
		StartDate:       draft.StartDate,
		UndoDeadline:    record.UndoDeadline,
	})

	o.editKeyboard(ctx, chatID, pending.MessageID, nil)
	remaining := o.deps.UndoStore.RemainingSeconds(handle)
	sctx, scancel := context.WithTimeout(ctx, o.sendTimeout)
	undoMessageID, err := o.deps.Messenger.SendMessage(sctx, chatID, renderCreated(created, remaining), undoKeyboard(handle))
	scancel()
	if err != nil {
		log.Errorf("Error sending creation confirmation: %v", err)
		return
	}
	o.deps.Scheduler.Schedule(o.eventCfg.UndoWindow(), func() {
		o.expireUndo(chatID, undoMessageID, handle)
	})
}

// expireUndo flips the undo button to a disabled state once the window
// closes. It must no-op when the user already undid the creation.
func (o *Orchestrator) expireUndo(chatID int64, messageID int, handle string) {
	if !o.deps.UndoStore.Registered(handle) {
		return
	}
	ctx := context.Background()
	o.editKeyboard(ctx, chatID, messageID, expiredKeyboard(handle))
	o.publish(ctx, "pipeline.undo.expired", event_bus.UndoExpired{Handle: handle, ChatID: chatID})
}

func (o *Orchestrator) undoCreation(ctx context.Context, chatID int64, messageID int, callbackID string, handle string) {
	record := o.deps.UndoStore.Consume(handle)
	if record == nil {
		o.answer(ctx, callbackID, msgUndoExpired)
		o.editKeyboard(ctx, chatID, messageID, expiredKeyboard(handle))
		return
	}
	o.answer(ctx, callbackID, "")

	cctx, cancel := context.WithTimeout(ctx, o.calTimeout)
	err := o.deps.Backend.Delete(cctx, record.CalendarID, record.ExternalEventID)
	cancel()
	if err != nil {
		log.Errorf("Error deleting event %s: %v", record.ExternalEventID, err)
		o.send(ctx, chatID, msgUndoFailed, nil)
		return
	}

	o.editKeyboard(ctx, chatID, messageID, nil)
	o.send(ctx, chatID, msgUndone, nil)
	o.publish(ctx, "pipeline.event.undone", event_bus.EventUndone{
		Handle:          handle,
		ExternalEventID: record.ExternalEventID,
		Title:           record.EventTitle,
	})
}

// expirePreview answers a button press whose preview is gone, either timed
// out or already consumed by an earlier press.
func (o *Orchestrator) expirePreview(ctx context.Context, chatID int64, messageID int, callbackID string, handle string) {
	o.answer(ctx, callbackID, msgPreviewExpired)
	o.editKeyboard(ctx, chatID, messageID, expiredKeyboard(handle))
	o.publish(ctx, "pipeline.preview.expired", event_bus.PreviewExpired{
		Handle: handle,
		ChatID: chatID,
	})
}

// closePreview handles the two ways a user dismisses a preview: cancel and
// edit. Both consume the pending attempt; edit additionally invites a
// corrected message. There is no retry with memory of the old attempt.
func (o *Orchestrator) closePreview(ctx context.Context, chatID int64, messageID int, callbackID string, handle string, reason string, reply string) {
	pending := o.deps.Previews.Consume(handle)
	if pending == nil {
		o.expirePreview(ctx, chatID, messageID, callbackID, handle)
		return
	}
	o.answer(ctx, callbackID, "")
	o.editKeyboard(ctx, chatID, pending.MessageID, nil)
	o.send(ctx, chatID, reply, nil)
	o.publish(ctx, "pipeline.attempt.closed", event_bus.AttemptClosed{
		Handle: handle,
		ChatID: chatID,
		Reason: reason,
	})
}

// The helpers below bound every outbound chat call with the send timeout, so
// a slow Telegram API cannot stall the dispatch loop for a whole poll cycle.

func (o *Orchestrator) send(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) {
	sctx, cancel := context.WithTimeout(ctx, o.sendTimeout)
	defer cancel()
	if _, err := o.deps.Messenger.SendMessage(sctx, chatID, text, keyboard); err != nil {
		log.Errorf("Error sending message to chat %d: %v", chatID, err)
	}
}

func (o *Orchestrator) answer(ctx context.Context, callbackID string, text string) {
	sctx, cancel := context.WithTimeout(ctx, o.sendTimeout)
	defer cancel()
	if err := o.deps.Messenger.AnswerCallback(sctx, callbackID, text); err != nil {
		log.Errorf("Error answering callback %s: %v", callbackID, err)
	}
}

func (o *Orchestrator) editKeyboard(ctx context.Context, chatID int64, messageID int, keyboard *telegram.InlineKeyboardMarkup) {
	sctx, cancel := context.WithTimeout(ctx, o.sendTimeout)
	defer cancel()
	if err := o.deps.Messenger.EditMessageKeyboard(sctx, chatID, messageID, keyboard); err != nil {
		log.Errorf("Error editing message %d keyboard: %v", messageID, err)
	}
}

func (o *Orchestrator) publish(ctx context.Context, eventType event_bus.EventType, payload any) {
	if err := o.deps.Bus.Publish(event_bus.NewEvent(ctx, eventType, payload)); err != nil {
		log.Errorf("Error publishing %s: %v", eventType, err)
	}
}

func codeStrings(codes []validator.Code) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, string(code))
	}
	return out
}
