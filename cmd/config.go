package cmd

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the agent needs from its environment: where the
// control API listens, how to reach the delivery backend, which courier this
// process acts for, and the tuning knobs of the telemetry pipeline.
type Config struct {
	HTTPListenAddr string `env:"HTTP_LISTEN_ADDR" envDefault:"127.0.0.1:8088"`

	BackendBaseURL string `env:"BACKEND_BASE_URL,required"`
	BackendToken   string `env:"BACKEND_TOKEN,required"`
	CourierID      string `env:"COURIER_ID,required"`

	GpsdAddress          string        `env:"GPSD_ADDRESS" envDefault:"localhost:2947"`
	PollInterval         time.Duration `env:"TRACKING_POLL_INTERVAL" envDefault:"30s"`
	FixTimeout           time.Duration `env:"TRACKING_FIX_TIMEOUT" envDefault:"10s"`
	ConnectivitySchedule string        `env:"CONNECTIVITY_SCHEDULE" envDefault:"@every 15s"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
