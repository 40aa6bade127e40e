package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/agendou/agendou/internal/config"
)

// Auth holds the OAuth material for the single calendar owner. The bot runs
// headless, so instead of an interactive consent flow it works from a
// long-lived refresh token obtained once out of band.
type Auth struct {
	oauthConfig  *oauth2.Config
	refreshToken string
}

func NewAuth(cfg config.Google) *Auth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarEventsScope},
	}
	return &Auth{oauthConfig: oauthConfig, refreshToken: cfg.RefreshToken}
}

// Client returns an HTTP client that mints and renews access tokens from the
// stored refresh token as requests need them.
func (a *Auth) Client(ctx context.Context) *http.Client {
	token := &oauth2.Token{RefreshToken: a.refreshToken}
	return oauth2.NewClient(ctx, a.oauthConfig.TokenSource(ctx, token))
}
