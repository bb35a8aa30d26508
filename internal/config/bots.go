package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotsConfig struct {
	Enabled bool `env:"BOTS_ENABLED" envDefault:"true"`

	PresenceInterval time.Duration `env:"BOT_PRESENCE_INTERVAL" envDefault:"30s"`
	ReevalInterval   time.Duration `env:"BOT_REEVAL_INTERVAL" envDefault:"30m"`
	AutoHostInterval time.Duration `env:"BOT_AUTOHOST_INTERVAL" envDefault:"60s"`
	FillInterval     time.Duration `env:"BOT_FILL_INTERVAL" envDefault:"30s"`

	RoomMinPlayers int `env:"BOT_ROOM_MIN_PLAYERS" envDefault:"2"`
	RoomMaxPlayers int `env:"BOT_ROOM_MAX_PLAYERS" envDefault:"6"`
}

func LoadBots() (BotsConfig, error) {
	var cfg BotsConfig
	err := env.Parse(&cfg)
	return cfg, err
}
