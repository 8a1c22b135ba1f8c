package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sarcoord/rescue-backend-go/internal/analysis/trajectory"
	"github.com/sarcoord/rescue-backend-go/internal/analysis/zones"
)

// Config 应用配置
type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"./data/rescue.db"`
	JWTSecret string     `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`

	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"0s"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"rescue.changes"`

	Track TrackConfig
	Zone  ZoneConfig
}

// TrackConfig 轨迹分段阈值
type TrackConfig struct {
	MaxAccuracyMeters float64       `env:"TRACK_MAX_ACCURACY_M" envDefault:"50"`
	MaxGap            time.Duration `env:"TRACK_MAX_GAP" envDefault:"60s"`
	MaxJumpMeters     float64       `env:"TRACK_MAX_JUMP_M" envDefault:"300"`
}

// ZoneConfig 概率区域校验
type ZoneConfig struct {
	MaxAreaKm2     float64 `env:"ZONE_MAX_AREA_KM2" envDefault:"100"`
	LegacyOpenRing bool    `env:"ZONE_LEGACY_OPEN_RING" envDefault:"false"`
}

// Load 加载配置
// .env.local is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Track.MaxAccuracyMeters <= 0 || c.Track.MaxGap <= 0 || c.Track.MaxJumpMeters <= 0 {
		return fmt.Errorf("track thresholds must be positive")
	}
	if c.Zone.MaxAreaKm2 <= 0 {
		return fmt.Errorf("ZONE_MAX_AREA_KM2 must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Segmenter returns the segmenter settings
func (c *Config) Segmenter() trajectory.Config {
	return trajectory.Config{
		MaxAccuracyMeters: c.Track.MaxAccuracyMeters,
		MaxGap:            c.Track.MaxGap,
		MaxJumpMeters:     c.Track.MaxJumpMeters,
	}
}

// Zones returns the zone validator settings
func (c *Config) Zones() zones.Config {
	return zones.Config{
		MaxAreaKm2:     c.Zone.MaxAreaKm2,
		LegacyOpenRing: c.Zone.LegacyOpenRing,
	}
}

// KafkaEnabled reports whether changes should be forwarded to Kafka
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
