/*
 * file: config.go
 * package: config
 * description:
 *     Loads process configuration from the environment, with an optional
 *     local .env file for development, generalized into one place for
 *     every process that needs to boot.
 */
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything main.go needs to boot the gateway, the room
// namespace, and the directory actor in one process.
type Config struct {
	ListenAddr string // e.g. ":8080"
	SelfAddr   string // e.g. "127.0.0.1:8080" - used to dial our own internal room/directory endpoints

	DatabaseDSN string

	ConnectTimeout time.Duration
	MaxFrameBytes  int

	LogLevel logrus.Level
}

// Load reads configuration from the environment, attempting a local .env
// file first and ignoring its absence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("config: no .env file found, using process environment")
	}

	cfg := Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		SelfAddr:       getEnv("SELF_ADDR", "127.0.0.1:8080"),
		DatabaseDSN:    buildDSN(),
		ConnectTimeout: 15 * time.Second,
		MaxFrameBytes:  14 * 1024 * 1024,
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func buildDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "roomrelay"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
