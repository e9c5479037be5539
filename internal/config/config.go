package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/biblebot.db"`
	PlanPath string `envconfig:"PLAN_PATH" default:""`      // empty = embedded plan
	SendAt   string `envconfig:"SEND_AT" default:"08:00"`   // daily trigger, HH:MM
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`    // IANA name for the trigger
	CatchUp  bool   `envconfig:"CATCH_UP" default:"false"`  // dispatch on start if today was missed
	SendPoll bool   `envconfig:"SEND_POLL" default:"true"`  // follow reminders with a yes/no poll
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz
}

// Load reads an optional .env file and then the environment into Config.
func Load() (Config, error) {
	// Missing .env is fine; real env vars take precedence anyway.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
