package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"leek/internal/logger"
)

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", logger.ErrorField(err))
	}
}

// ApplyEnv overlays LEEK_* environment variables on s.
func ApplyEnv(s Settings) Settings {
	s.Volume = getEnvInt("LEEK_VOLUME", s.Volume)
	s.Theme = getEnv("LEEK_THEME", s.Theme)
	s.LogLevel = getEnv("LEEK_LOG_LEVEL", s.LogLevel)
	s.LogFile = getEnv("LEEK_LOG_FILE", s.LogFile)
	s.TickMillis = getEnvInt("LEEK_TICK_MS", s.TickMillis)
	s.Normalize()
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("Ignoring invalid integer in environment",
			logger.String("key", key),
			logger.String("value", value))
		return defaultValue
	}
	return n
}

// StartDir picks the directory the browser opens in: arg when it names a
// directory, then $XDG_MUSIC_DIR, ~/Music, the home directory and finally
// the working directory.
func StartDir(arg string) string {
	candidates := []string{arg, os.Getenv("XDG_MUSIC_DIR")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "Music"), home)
	}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "."
}
