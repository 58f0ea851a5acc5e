// Package config loads run settings from the environment and the static
// season description from YAML.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds the defaults for command-line flags.
type Config struct {
	RosterPath  string
	RecordsDir  string
	DBPath      string
	SeasonFile  string // empty means the built-in reference season
	LogLevel    string
	MetricsFile string // empty disables the textfile
	Workers     int
}

// Load reads .env when present, then LEAGUE_* variables with fallbacks.
func Load(logger *log.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, using environment variables or defaults")
	}

	cfg := Config{
		RosterPath:  getEnv("LEAGUE_ROSTER", "roster.csv"),
		RecordsDir:  getEnv("LEAGUE_RECORDS_DIR", "replays"),
		DBPath:      getEnv("LEAGUE_DB", filepath.Join(userHome(), ".leaguestats", "league.db")),
		SeasonFile:  getEnv("LEAGUE_SEASON_FILE", ""),
		LogLevel:    getEnv("LEAGUE_LOG_LEVEL", "info"),
		MetricsFile: getEnv("LEAGUE_METRICS_FILE", ""),
		Workers:     getEnvInt(logger, "LEAGUE_WORKERS", 4),
	}
	logger.Debug("configuration loaded",
		"roster", cfg.RosterPath, "records", cfg.RecordsDir, "db", cfg.DBPath,
		"season", cfg.SeasonFile, "workers", cfg.Workers)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(logger *log.Logger, key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
