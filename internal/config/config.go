package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Scoring   ScoringConfig
	OSM       OSMConfig
	Nominatim NominatimConfig
	Monitor   MonitorConfig
	Notifier  NotifierConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	OSMCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// ScoringConfig agrupa pesos y umbrales del scoring religioso
type ScoringConfig struct {
	DetectionThreshold  float64
	KeywordMediumWeight float64
	KeywordLowWeight    float64
	KeywordNegWeight    float64
	SurfaceMinM2        float64
	SurfaceScore        float64
	HighCeilingsBonus   float64
	MultipleFloorsBonus float64
	ProximityRadiusM    float64
	ProximityMaxScore   float64
	MatchExactBonus     float64
	MatchNearbyBonus    float64
}

type OSMConfig struct {
	OverpassURL    string
	RequestTimeout time.Duration
	AlertRadiusM   float64
	UserAgent      string
}

type NominatimConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

type MonitorConfig struct {
	Enabled         bool
	DefaultInterval time.Duration
	ErrorBackoff    time.Duration
}

type NotifierConfig struct {
	Enabled    bool
	CronSpec   string
	Stream     string
	BatchLimit int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			OSMCacheTTL: time.Duration(viper.GetInt("OSM_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Scoring: ScoringConfig{
			DetectionThreshold:  viper.GetFloat64("DETECTION_THRESHOLD"),
			KeywordMediumWeight: viper.GetFloat64("KEYWORD_MEDIUM_WEIGHT"),
			KeywordLowWeight:    viper.GetFloat64("KEYWORD_LOW_WEIGHT"),
			KeywordNegWeight:    viper.GetFloat64("KEYWORD_NEG_WEIGHT"),
			SurfaceMinM2:        viper.GetFloat64("SURFACE_MIN_M2"),
			SurfaceScore:        viper.GetFloat64("SURFACE_SCORE"),
			HighCeilingsBonus:   viper.GetFloat64("HIGH_CEILINGS_BONUS"),
			MultipleFloorsBonus: viper.GetFloat64("MULTIPLE_FLOORS_BONUS"),
			ProximityRadiusM:    viper.GetFloat64("PROXIMITY_RADIUS_M"),
			ProximityMaxScore:   viper.GetFloat64("PROXIMITY_MAX_SCORE"),
			MatchExactBonus:     viper.GetFloat64("OSM_MATCH_EXACT_BONUS"),
			MatchNearbyBonus:    viper.GetFloat64("OSM_MATCH_NEARBY_BONUS"),
		},
		OSM: OSMConfig{
			OverpassURL:    viper.GetString("OVERPASS_URL"),
			RequestTimeout: time.Duration(viper.GetInt("OVERPASS_TIMEOUT")) * time.Second,
			AlertRadiusM:   viper.GetFloat64("OSM_ALERT_RADIUS_M"),
			UserAgent:      viper.GetString("OSM_USER_AGENT"),
		},
		Nominatim: NominatimConfig{
			BaseURL:        viper.GetString("NOMINATIM_URL"),
			RequestTimeout: time.Duration(viper.GetInt("NOMINATIM_TIMEOUT")) * time.Second,
			UserAgent:      viper.GetString("OSM_USER_AGENT"),
		},
		Monitor: MonitorConfig{
			Enabled:         viper.GetBool("MONITOR_ENABLED"),
			DefaultInterval: time.Duration(viper.GetInt("MONITOR_INTERVAL_HOURS")) * time.Hour,
			ErrorBackoff:    time.Duration(viper.GetInt("MONITOR_ERROR_BACKOFF")) * time.Second,
		},
		Notifier: NotifierConfig{
			Enabled:    viper.GetBool("NOTIFIER_ENABLED"),
			CronSpec:   viper.GetString("NOTIFIER_CRON"),
			Stream:     viper.GetString("NOTIFIER_STREAM"),
			BatchLimit: viper.GetInt("NOTIFIER_BATCH_LIMIT"),
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults rellena los valores no configurados
func applyDefaults(cfg *Config) {
	if cfg.Cache.OSMCacheTTL == 0 {
		cfg.Cache.OSMCacheTTL = time.Hour
	}
	if cfg.Scoring.DetectionThreshold == 0 {
		cfg.Scoring.DetectionThreshold = 50
	}
	if cfg.Scoring.KeywordMediumWeight == 0 {
		cfg.Scoring.KeywordMediumWeight = 10
	}
	if cfg.Scoring.KeywordLowWeight == 0 {
		cfg.Scoring.KeywordLowWeight = 5
	}
	if cfg.Scoring.KeywordNegWeight == 0 {
		cfg.Scoring.KeywordNegWeight = 10
	}
	if cfg.Scoring.SurfaceMinM2 == 0 {
		cfg.Scoring.SurfaceMinM2 = 300
	}
	if cfg.Scoring.SurfaceScore == 0 {
		cfg.Scoring.SurfaceScore = 10
	}
	if cfg.Scoring.HighCeilingsBonus == 0 {
		cfg.Scoring.HighCeilingsBonus = 3
	}
	if cfg.Scoring.MultipleFloorsBonus == 0 {
		cfg.Scoring.MultipleFloorsBonus = 3
	}
	if cfg.Scoring.ProximityRadiusM == 0 {
		cfg.Scoring.ProximityRadiusM = 200
	}
	if cfg.Scoring.ProximityMaxScore == 0 {
		cfg.Scoring.ProximityMaxScore = 20
	}
	if cfg.Scoring.MatchExactBonus == 0 {
		cfg.Scoring.MatchExactBonus = 30
	}
	if cfg.Scoring.MatchNearbyBonus == 0 {
		cfg.Scoring.MatchNearbyBonus = 15
	}
	if cfg.OSM.OverpassURL == "" {
		cfg.OSM.OverpassURL = "https://overpass-api.de/api/interpreter"
	}
	if cfg.OSM.RequestTimeout == 0 {
		cfg.OSM.RequestTimeout = 30 * time.Second
	}
	if cfg.OSM.AlertRadiusM == 0 {
		cfg.OSM.AlertRadiusM = 150
	}
	if cfg.OSM.UserAgent == "" {
		cfg.OSM.UserAgent = "sipi-etl/1.0"
	}
	if cfg.Nominatim.BaseURL == "" {
		cfg.Nominatim.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Nominatim.RequestTimeout == 0 {
		cfg.Nominatim.RequestTimeout = 10 * time.Second
	}
	if cfg.Monitor.DefaultInterval == 0 {
		cfg.Monitor.DefaultInterval = 24 * time.Hour
	}
	if cfg.Monitor.ErrorBackoff == 0 {
		cfg.Monitor.ErrorBackoff = 5 * time.Minute
	}
	if cfg.Notifier.CronSpec == "" {
		cfg.Notifier.CronSpec = "@every 15m"
	}
	if cfg.Notifier.Stream == "" {
		cfg.Notifier.Stream = "stream:region:alerts"
	}
	if cfg.Notifier.BatchLimit == 0 {
		cfg.Notifier.BatchLimit = 100
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
