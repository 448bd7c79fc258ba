// README: Config loader with env defaults for HTTP, engine delays, estimator, and pricing.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// EngineConfig holds every timed delay of the request engine. All of them are
// simulated latencies, so they are tunable for demos and fast-forwarded in
// tests through the clock abstraction.
type EngineConfig struct {
	DebounceWindow  time.Duration
	EstimateLatency time.Duration
	QuoteLatency    time.Duration
	AcceptAfter     time.Duration
	EnRouteAfter    time.Duration
	ArriveAfter     time.Duration
}

type EstimatorConfig struct {
	BaseKm     float64
	FallbackKm float64
}

type PricingConfig struct {
	TierThresholdKm float64
	NearTierCents   int64
	FarTierCents    int64
	Currency        string
}

type Config struct {
	HTTP struct {
		Addr         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}
	Log struct {
		Env string // "production" or "development"
	}
	BaseAddress string
	Engine      EngineConfig
	Estimator   EstimatorConfig
	Pricing     PricingConfig
}

// Load reads configuration from environment variables and an optional .env
// file, falling back to defaults that match the reference deployment.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("GUINCHO_HTTP_ADDR", ":8080")
	v.SetDefault("GUINCHO_HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("GUINCHO_HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("GUINCHO_LOG_ENV", "development")
	v.SetDefault("GUINCHO_BASE_ADDRESS", "Rua Dona Deolinda Pereira de Souza 516, Campo Grande - MS")

	v.SetDefault("GUINCHO_DEBOUNCE_WINDOW", "500ms")
	v.SetDefault("GUINCHO_ESTIMATE_LATENCY", "1500ms")
	v.SetDefault("GUINCHO_QUOTE_LATENCY", "2s")
	v.SetDefault("GUINCHO_ACCEPT_AFTER", "3s")
	v.SetDefault("GUINCHO_ENROUTE_AFTER", "5s")
	v.SetDefault("GUINCHO_ARRIVE_AFTER", "15s")

	v.SetDefault("GUINCHO_ESTIMATE_BASE_KM", 25.0)
	v.SetDefault("GUINCHO_ESTIMATE_FALLBACK_KM", 35.0)

	v.SetDefault("GUINCHO_PRICE_TIER_KM", 40.0)
	v.SetDefault("GUINCHO_PRICE_NEAR_CENTS", 15000)
	v.SetDefault("GUINCHO_PRICE_FAR_CENTS", 18000)
	v.SetDefault("GUINCHO_PRICE_CURRENCY", "BRL")

	// Missing .env is fine; plain env vars still apply.
	_ = v.ReadInConfig()

	var cfg Config
	cfg.HTTP.Addr = v.GetString("GUINCHO_HTTP_ADDR")
	cfg.HTTP.ReadTimeout = v.GetDuration("GUINCHO_HTTP_READ_TIMEOUT")
	cfg.HTTP.WriteTimeout = v.GetDuration("GUINCHO_HTTP_WRITE_TIMEOUT")
	cfg.Log.Env = v.GetString("GUINCHO_LOG_ENV")
	cfg.BaseAddress = v.GetString("GUINCHO_BASE_ADDRESS")

	cfg.Engine = EngineConfig{
		DebounceWindow:  v.GetDuration("GUINCHO_DEBOUNCE_WINDOW"),
		EstimateLatency: v.GetDuration("GUINCHO_ESTIMATE_LATENCY"),
		QuoteLatency:    v.GetDuration("GUINCHO_QUOTE_LATENCY"),
		AcceptAfter:     v.GetDuration("GUINCHO_ACCEPT_AFTER"),
		EnRouteAfter:    v.GetDuration("GUINCHO_ENROUTE_AFTER"),
		ArriveAfter:     v.GetDuration("GUINCHO_ARRIVE_AFTER"),
	}
	cfg.Estimator = EstimatorConfig{
		BaseKm:     v.GetFloat64("GUINCHO_ESTIMATE_BASE_KM"),
		FallbackKm: v.GetFloat64("GUINCHO_ESTIMATE_FALLBACK_KM"),
	}
	cfg.Pricing = PricingConfig{
		TierThresholdKm: v.GetFloat64("GUINCHO_PRICE_TIER_KM"),
		NearTierCents:   v.GetInt64("GUINCHO_PRICE_NEAR_CENTS"),
		FarTierCents:    v.GetInt64("GUINCHO_PRICE_FAR_CENTS"),
		Currency:        v.GetString("GUINCHO_PRICE_CURRENCY"),
	}
	return cfg, nil
}
