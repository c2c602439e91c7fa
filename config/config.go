package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Geocoding (OpenStreetMap Nominatim).
	GeocoderURL       string        `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderCountry   string        `mapstructure:"GEOCODER_COUNTRY"`
	GeocodeCacheTTL   time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`

	// Matching radii in kilometres.
	PointRadiusKm  float64 `mapstructure:"POINT_RADIUS_KM"`
	PickupRadiusKm float64 `mapstructure:"PICKUP_RADIUS_KM"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "recicleaqui")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("GEOCODER_USER_AGENT", "RecicleAqui/2.0")
	v.SetDefault("GEOCODER_COUNTRY", "br")
	v.SetDefault("GEOCODE_CACHE_TTL", "24h")
	v.SetDefault("POINT_RADIUS_KM", 20)
	v.SetDefault("PICKUP_RADIUS_KM", 15)
}

// Load reads configuration from an optional config.yaml (in "." or
// "./config", or the file at path when set) and the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the configuration into AppConfig.
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	out := splitCSV(c.CORSOrigins)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. An empty list trusts no
// proxy, so forwarding headers are ignored.
func (c Config) TrustedProxyList() []string {
	return splitCSV(c.TrustedProxies)
}

func splitCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
