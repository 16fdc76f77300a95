// README: Config loader with env defaults for HTTP, the remote API, maps, Redis, and flow tuning.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// FlowConfig tunes the booking-flow controller.
type FlowConfig struct {
	TierPollInterval   time.Duration
	AnimationDuration  time.Duration
	GeolocationTimeout time.Duration
	GeolocationMaxAge  time.Duration
	GeocodeTimeout     time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	API struct {
		BaseURL string
	}
	Maps struct {
		APIKey string
	}
	Redis struct {
		Addr     string
		Password string
	}
	Flow FlowConfig
	Log  struct {
		Level string
	}
}

// Load reads configuration from FLAGG_-prefixed environment variables with
// defaults matching the mobile client's hard-coded values.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FLAGG")
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("API_BASE_URL", "http://localhost:3000")
	v.SetDefault("MAPS_API_KEY", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("TIER_POLL_INTERVAL", 5*time.Minute)
	v.SetDefault("ANIMATION_DURATION", 500*time.Millisecond)
	v.SetDefault("GEOLOCATION_TIMEOUT", 20*time.Second)
	v.SetDefault("GEOLOCATION_MAX_AGE", time.Second)
	v.SetDefault("GEOCODE_TIMEOUT", 5*time.Second)
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	cfg.API.BaseURL = v.GetString("API_BASE_URL")
	cfg.Maps.APIKey = v.GetString("MAPS_API_KEY")
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Flow.TierPollInterval = v.GetDuration("TIER_POLL_INTERVAL")
	cfg.Flow.AnimationDuration = v.GetDuration("ANIMATION_DURATION")
	cfg.Flow.GeolocationTimeout = v.GetDuration("GEOLOCATION_TIMEOUT")
	cfg.Flow.GeolocationMaxAge = v.GetDuration("GEOLOCATION_MAX_AGE")
	cfg.Flow.GeocodeTimeout = v.GetDuration("GEOCODE_TIMEOUT")
	cfg.Log.Level = v.GetString("LOG_LEVEL")

	return cfg, nil
}
