package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// HubSecret guards the privileged session-archive and share-bonus
	// endpoints called by the hub backend.
	HubSecret   string `env:"HUB_SECRET,required,notEmpty"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	DiscordBotURL      string        `env:"DISCORD_BOT_URL"`
	LiveEngineURL      string        `env:"LIVE_ENGINE_URL"`
	UseLiveEngineRooms bool          `env:"USE_LIVE_ENGINE_ROOMS" envDefault:"false"`
	AdapterTimeout     time.Duration `env:"ADAPTER_TIMEOUT" envDefault:"5s"`

	ShareBonusTickets int64 `env:"SHARE_BONUS_TICKETS" envDefault:"100"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
