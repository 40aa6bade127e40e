package app

import (
	"context"
	"time"

	"github.com/agendou/agendou/internal/config"
	"github.com/agendou/agendou/internal/event_bus"
	"github.com/agendou/agendou/internal/utils"
	"github.com/agendou/agendou/pkg/calendar"
	"github.com/agendou/agendou/pkg/conflict"
	"github.com/agendou/agendou/pkg/event"
	"github.com/agendou/agendou/pkg/google"
	"github.com/agendou/agendou/pkg/nlp"
	"github.com/agendou/agendou/pkg/pipeline"
	"github.com/agendou/agendou/pkg/preview"
	"github.com/agendou/agendou/pkg/stats"
	"github.com/agendou/agendou/pkg/telegram"
	"github.com/agendou/agendou/pkg/undo"
	"github.com/agendou/agendou/pkg/validator"
)

// journalSize caps the in-memory history of created events.
const journalSize = 50

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock     utils.Clock
	Scheduler utils.Scheduler
	Bus       *event_bus.EventBus
	Location  *time.Location

	Parser    nlp.Parser
	Validator *validator.Validator
	Backend   calendar.Backend
	Detector  *conflict.Detector

	UndoStore *undo.Store
	Previews  *preview.Cache

	Telegram *telegram.Client
	Poller   *telegram.Poller

	History        *event.History
	HistoryHandler *event.Handler

	Stats        *stats.Collector
	StatsHandler *stats.Handler

	Orchestrator *pipeline.Orchestrator
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Scheduler = utils.SystemScheduler{}
	deps.Bus = event_bus.NewEventBus()

	loc, err := utils.FixedOffsetLocation(cfg.Event.UTCOffset)
	if err != nil {
		return nil, err
	}
	deps.Location = loc

	deps.Parser = nlp.NewClient(cfg.LLM)
	deps.Validator = validator.NewValidator(deps.Clock, loc)

	auth := google.NewAuth(cfg.Google)
	backend, err := google.NewCalendarBackend(ctx, auth, cfg.Event)
	if err != nil {
		return nil, err
	}
	deps.Backend = backend
	deps.Detector = conflict.NewDetector(backend)

	deps.UndoStore = undo.NewStore(deps.Clock, deps.Scheduler, cfg.Event.UndoWindow(), cfg.Event.UndoGrace())
	deps.Previews = preview.NewCache(deps.Clock, cfg.Event.PreviewTTL())

	deps.Telegram = telegram.NewClient(cfg.Telegram)

	deps.History = event.NewHistory(deps.Bus, deps.Clock, journalSize)
	deps.HistoryHandler = event.NewHandler(deps.History)

	deps.Stats = stats.NewCollector(deps.Bus, deps.Clock)
	deps.StatsHandler = stats.NewHandler(deps.Stats, stats.NewCSVRenderer())

	deps.Orchestrator = pipeline.NewOrchestrator(pipeline.Deps{
		Parser:    deps.Parser,
		Validator: deps.Validator,
		Detector:  deps.Detector,
		Backend:   deps.Backend,
		UndoStore: deps.UndoStore,
		Previews:  deps.Previews,
		Messenger: deps.Telegram,
		Bus:       deps.Bus,
		Clock:     deps.Clock,
		Scheduler: deps.Scheduler,
		Location:  deps.Location,
	}, cfg)

	deps.Poller = telegram.NewPoller(deps.Telegram, deps.Orchestrator, cfg.Telegram.AllowedChatID, cfg.Telegram.PollTimeoutSeconds)

	return deps, nil
}
