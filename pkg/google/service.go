package google

import (
	"context"
	"fmt"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/agendou/agendou/internal/config"
	"github.com/agendou/agendou/internal/utils"
)

// NewCalendarBackend wires authentication and the Google Calendar API client
// into a ready-to-use backend. It fails only on construction problems
// (malformed offset, client setup); credential errors surface later, on the
// first real call.
func NewCalendarBackend(ctx context.Context, auth *Auth, cfg config.Event) (*Calendar, error) {
	loc, err := utils.FixedOffsetLocation(cfg.UTCOffset)
	if err != nil {
		return nil, err
	}

	service, err := gcal.NewService(ctx, option.WithHTTPClient(auth.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to build Google Calendar client: %w", err)
	}
	return newCalendar(service, loc, cfg.UTCOffset), nil
}
