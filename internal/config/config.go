package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	LogLevel string   `koanf:"loglevel"`
	Listen   string   `koanf:"listen"`
	Telegram Telegram `koanf:"telegram"`
	LLM      LLM      `koanf:"llm"`
	Google   Google   `koanf:"google"`
	Event    Event    `koanf:"event"`
}

type Telegram struct {
	BotToken           string `koanf:"bottoken"`
	AllowedChatID      int64  `koanf:"allowedchatid"`
	PollTimeoutSeconds int    `koanf:"polltimeoutseconds"`
	SendTimeoutSeconds int    `koanf:"sendtimeoutseconds"`
}

type LLM struct {
	BaseURL        string `koanf:"baseurl"`
	APIKey         string `koanf:"apikey"`
	Model          string `koanf:"model"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

type Google struct {
	ClientId       string `koanf:"clientid"`
	ClientSecret   string `koanf:"clientsecret"`
	RefreshToken   string `koanf:"refreshtoken"`
	CalendarID     string `koanf:"calendarid"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

// Event holds the scheduling policy: the identity injected as attendee on
// every created event, the duration applied when the user gives neither an
// end time nor a duration, the undo window, and the fixed UTC offset used to
// compose instants (no daylight-saving adjustment).
type Event struct {
	OwnerEmail             string `koanf:"owneremail"`
	DefaultDurationMinutes int    `koanf:"defaultdurationminutes"`
	UndoWindowSeconds      int    `koanf:"undowindowseconds"`
	UndoGraceSeconds       int    `koanf:"undograceseconds"`
	PreviewTTLSeconds      int    `koanf:"previewttlseconds"`
	UTCOffset              string `koanf:"utcoffset"`
}

func (e Event) UndoWindow() time.Duration {
	return time.Duration(e.UndoWindowSeconds) * time.Second
}

func (e Event) UndoGrace() time.Duration {
	return time.Duration(e.UndoGraceSeconds) * time.Second
}

func (e Event) PreviewTTL() time.Duration {
	return time.Duration(e.PreviewTTLSeconds) * time.Second
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		LogLevel: "info",
		Listen:   ":8282",
		Telegram: Telegram{
			PollTimeoutSeconds: 30,
			SendTimeoutSeconds: 10,
		},
		LLM: LLM{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
		},
		Google: Google{
			CalendarID:     "primary",
			TimeoutSeconds: 15,
		},
		Event: Event{
			DefaultDurationMinutes: 60,
			UndoWindowSeconds:      120,
			UndoGraceSeconds:       10,
			PreviewTTLSeconds:      900,
			UTCOffset:              "-03:00",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "AGENDOU_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "AGENDOU_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Validate reports missing required credentials. These are the only errors
// allowed to terminate the process at startup.
func (a Application) Validate() error {
	var missing []string
	if a.Telegram.BotToken == "" {
		missing = append(missing, "telegram.bottoken")
	}
	if a.Telegram.AllowedChatID == 0 {
		missing = append(missing, "telegram.allowedchatid")
	}
	if a.LLM.APIKey == "" {
		missing = append(missing, "llm.apikey")
	}
	if a.Google.ClientId == "" || a.Google.ClientSecret == "" || a.Google.RefreshToken == "" {
		missing = append(missing, "google.clientid/clientsecret/refreshtoken")
	}
	if a.Event.OwnerEmail == "" {
		missing = append(missing, "event.owneremail")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
