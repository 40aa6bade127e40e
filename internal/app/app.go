package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/internal/config"
)

// Application wires configuration, dependencies, router, and server lifecycle.
type Application struct {
	cfg       config.Application
	deps      *Dependencies
	router    *mux.Router
	srv       *http.Server
	cron      *cron.Cron
	startedAt time.Time
}

// NewApplication constructs the full application, ready to Run().
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	deps, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Middleware chain
	SetupMiddleware(r)

	app := &Application{
		cfg:       cfg,
		deps:      deps,
		router:    r,
		cron:      cron.New(),
		startedAt: time.Now(),
	}

	// Routes
	RegisterRoutes(r, deps, app.startedAt)

	// Expired previews and spent undo records are normally evicted by their
	// own timers; the periodic sweep mops up whatever a timer missed.
	if _, err := app.cron.AddFunc("@every 1m", func() {
		if removed := deps.Previews.Sweep(); removed > 0 {
			log.Debugf("Preview sweep removed %d expired entries", removed)
		}
		if removed := deps.UndoStore.Sweep(); removed > 0 {
			log.Debugf("Undo sweep removed %d expired records", removed)
		}
	}); err != nil {
		return nil, err
	}

	app.srv = &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return app, nil
}

// Run starts the sweep cron, the HTTP server, and the Telegram poller, then
// blocks until a shutdown signal arrives or one of them fails.
func (a *Application) Run(ctx context.Context) error {
	a.cron.Start()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	pollCtx, cancelPoller := context.WithCancel(ctx)
	defer cancelPoller()
	pollErr := make(chan error, 1)
	go func() {
		pollErr <- a.deps.Poller.Run(pollCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	case err := <-serverErr:
		log.Errorf("HTTP server failed: %v", err)
		runErr = err
	case err := <-pollErr:
		if err != nil {
			log.Errorf("Telegram poller failed: %v", err)
			runErr = err
		}
	}

	cancelPoller()
	<-a.cron.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}

	log.Info("Agendou stopped")
	return runErr
}
