package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`

	// Anchor management API (availability, menus, booking creation).
	AnchorAPIBaseURL string `mapstructure:"ANCHOR_API_BASE_URL"`
	AnchorAPIKey     string `mapstructure:"ANCHOR_API_KEY"`

	// Google Places (review passthrough).
	GooglePlacesAPIKey string `mapstructure:"GOOGLE_PLACES_API_KEY"`
	GooglePlaceID      string `mapstructure:"GOOGLE_PLACE_ID"`

	// Venue details used by booking rules and error guidance.
	VenueTimezone string `mapstructure:"VENUE_TIMEZONE"`
	VenuePhone    string `mapstructure:"VENUE_PHONE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("ANCHOR_API_BASE_URL", "https://management.orangejelly.co.uk/api")
	viper.SetDefault("ANCHOR_API_KEY", "")
	viper.SetDefault("GOOGLE_PLACES_API_KEY", "")
	viper.SetDefault("GOOGLE_PLACE_ID", "")
	viper.SetDefault("VENUE_TIMEZONE", "Europe/London")
	viper.SetDefault("VENUE_PHONE", "01753 682707")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.AnchorAPIKey == "" {
		log.Println("ANCHOR_API_KEY is not set; calls to the management API will fail")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
