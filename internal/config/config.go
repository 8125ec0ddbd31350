package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	SleeperAPIBase string
	Sport          string
	DBPath         string
	ServerPort     string
	LogLevel       string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		SleeperAPIBase: getEnv("SLEEPER_API_BASE", "https://api.sleeper.app/v1"),
		Sport:          getEnv("SLEEPER_SPORT", "nfl"),
		DBPath:         getEnv("DB_PATH", "league_intel.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	logger.Info().
		Str("sleeper_api_base", cfg.SleeperAPIBase).
		Str("sport", cfg.Sport).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
